package domain

import (
	"encoding/json"
	"time"
)

type FulfillmentMethodOption struct {
	Type    FulfillmentMethod `json:"type"`
	Enabled bool              `json:"enabled"`
}

type Restaurant struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	HasMenu     bool     `json:"hasMenu"`
	Address     *Address `json:"address,omitempty"`
	// FulfillmentMethods is nil when the restaurant does not declare any.
	FulfillmentMethods []FulfillmentMethodOption `json:"fulfillmentMethods,omitempty"`
}

// UnmarshalJSON treats a malformed fulfillmentMethods value as undeclared
// instead of failing the whole document.
func (r *Restaurant) UnmarshalJSON(data []byte) error {
	type plain Restaurant
	var raw struct {
		plain
		FulfillmentMethods json.RawMessage `json:"fulfillmentMethods"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Restaurant(raw.plain)
	r.FulfillmentMethods = nil

	if len(raw.FulfillmentMethods) == 0 {
		return nil
	}
	var methods []FulfillmentMethodOption
	if err := json.Unmarshal(raw.FulfillmentMethods, &methods); err != nil {
		return nil
	}
	r.FulfillmentMethods = methods
	return nil
}

type Address struct {
	StreetAddress string          `json:"streetAddress"`
	PostalCode    string          `json:"postalCode,omitempty"`
	Description   string          `json:"description,omitempty"`
	Geo           *GeoCoordinates `json:"geo,omitempty"`
}

type GeoCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Timing is the delivery schedule published by the server for a restaurant.
type Timing struct {
	Asap  time.Time   `json:"asap"`
	Today bool        `json:"today"`
	Fast  bool        `json:"fast"`
	Diff  string      `json:"diff,omitempty"`
	Range []time.Time `json:"range,omitempty"`
}
