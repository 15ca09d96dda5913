package session

import (
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
)

// Event is anything the Store knows how to apply.
type Event interface {
	Kind() string
	event()
}

type InitRequest struct {
	Restaurant *domain.Restaurant
}

type InitSuccess struct {
	Restaurant *domain.Restaurant
	Cart       *domain.Cart
	Token      string
}

type InitFailure struct {
	Err error
}

type ResetRestaurant struct {
	Restaurant *domain.Restaurant
}

type RemoveItem struct {
	ID int64
}

type UpdateItemQuantity struct {
	Item     domain.CartItem
	Quantity int
}

type SetAddress struct {
	Address *domain.Address
}

type SetAddressOK struct {
	OK bool
}

type SetDate struct {
	Date *time.Time
}

type SetTiming struct {
	Timing *domain.Timing
}

type Clear struct{}

type LoadRestaurantsRequest struct{}

type LoadRestaurantsSuccess struct {
	Restaurants []domain.Restaurant
}

type LoadRestaurantsFailure struct {
	Err error
}

type CheckoutRequest struct{}

type CheckoutSuccess struct{}

type CheckoutFailure struct {
	Failure domain.Failure
}

type ShowAddressModal struct {
	// Message replaces the current message when not empty.
	Message string
}

type HideAddressModal struct{}

type SetAddressModalMessage struct {
	Message string
}

type SetAddressModalHidden struct {
	Hidden bool
}

type UpdateCartSuccess struct {
	Cart *domain.Cart
}

type SetCheckoutLoading struct {
	Loading bool
}

type AddItemRequest struct {
	Identifier string
}

type AddItemRequestFinished struct {
	Identifier string
}

type SetCartValidation struct {
	IsValid    bool
	Violations []domain.Violation
}

type ShowExpiredSessionModal struct{}

type HideExpiredSessionModal struct{}

type SessionExpired struct{}

func (InitRequest) Kind() string             { return "InitRequest" }
func (InitSuccess) Kind() string             { return "InitSuccess" }
func (InitFailure) Kind() string             { return "InitFailure" }
func (ResetRestaurant) Kind() string         { return "ResetRestaurant" }
func (RemoveItem) Kind() string              { return "RemoveItem" }
func (UpdateItemQuantity) Kind() string      { return "UpdateItemQuantity" }
func (SetAddress) Kind() string              { return "SetAddress" }
func (SetAddressOK) Kind() string            { return "SetAddressOK" }
func (SetDate) Kind() string                 { return "SetDate" }
func (SetTiming) Kind() string               { return "SetTiming" }
func (Clear) Kind() string                   { return "Clear" }
func (LoadRestaurantsRequest) Kind() string  { return "LoadRestaurantsRequest" }
func (LoadRestaurantsSuccess) Kind() string  { return "LoadRestaurantsSuccess" }
func (LoadRestaurantsFailure) Kind() string  { return "LoadRestaurantsFailure" }
func (CheckoutRequest) Kind() string         { return "CheckoutRequest" }
func (CheckoutSuccess) Kind() string         { return "CheckoutSuccess" }
func (CheckoutFailure) Kind() string         { return "CheckoutFailure" }
func (ShowAddressModal) Kind() string        { return "ShowAddressModal" }
func (HideAddressModal) Kind() string        { return "HideAddressModal" }
func (SetAddressModalMessage) Kind() string  { return "SetAddressModalMessage" }
func (SetAddressModalHidden) Kind() string   { return "SetAddressModalHidden" }
func (UpdateCartSuccess) Kind() string       { return "UpdateCartSuccess" }
func (SetCheckoutLoading) Kind() string      { return "SetCheckoutLoading" }
func (AddItemRequest) Kind() string          { return "AddItemRequest" }
func (AddItemRequestFinished) Kind() string  { return "AddItemRequestFinished" }
func (SetCartValidation) Kind() string       { return "SetCartValidation" }
func (ShowExpiredSessionModal) Kind() string { return "ShowExpiredSessionModal" }
func (HideExpiredSessionModal) Kind() string { return "HideExpiredSessionModal" }
func (SessionExpired) Kind() string          { return "SessionExpired" }

func (InitRequest) event()             {}
func (InitSuccess) event()             {}
func (InitFailure) event()             {}
func (ResetRestaurant) event()         {}
func (RemoveItem) event()              {}
func (UpdateItemQuantity) event()      {}
func (SetAddress) event()              {}
func (SetAddressOK) event()            {}
func (SetDate) event()                 {}
func (SetTiming) event()               {}
func (Clear) event()                   {}
func (LoadRestaurantsRequest) event()  {}
func (LoadRestaurantsSuccess) event()  {}
func (LoadRestaurantsFailure) event()  {}
func (CheckoutRequest) event()         {}
func (CheckoutSuccess) event()         {}
func (CheckoutFailure) event()         {}
func (ShowAddressModal) event()        {}
func (HideAddressModal) event()        {}
func (SetAddressModalMessage) event()  {}
func (SetAddressModalHidden) event()   {}
func (UpdateCartSuccess) event()       {}
func (SetCheckoutLoading) event()      {}
func (AddItemRequest) event()          {}
func (AddItemRequestFinished) event()  {}
func (SetCartValidation) event()       {}
func (ShowExpiredSessionModal) event() {}
func (HideExpiredSessionModal) event() {}
func (SessionExpired) event()          {}
