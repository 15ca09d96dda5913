package service

import "errors"

var (
	ErrNoSession              = errors.New("no active cart session")
	ErrNoRestaurant           = errors.New("no restaurant selected")
	ErrItemNotFound           = errors.New("item not in cart")
	ErrFulfillmentUnavailable = errors.New("fulfillment method not offered by restaurant")
)
