package session

import (
	"github.com/fjod/go_cart/session-service/internal/domain"
)

// Transition computes the state that follows s once e is applied. It never
// fails: unknown events, including pointers to known event types, return s
// itself so callers can detect "nothing changed" by identity.
func Transition(s *State, e Event) *State {
	if s == nil {
		s = NewState()
	}

	switch e := e.(type) {
	case LoadRestaurantsRequest, CheckoutRequest:
		next := *s
		next.IsFetching = true
		return &next

	case LoadRestaurantsFailure, InitFailure:
		next := *s
		next.IsFetching = false
		return &next

	case LoadRestaurantsSuccess:
		next := *s
		next.IsFetching = false
		next.Restaurants = append([]domain.Restaurant{}, e.Restaurants...)
		return &next

	case CheckoutSuccess:
		next := *s
		next.IsFetching = false
		return &next

	case CheckoutFailure:
		next := *s
		next.Errors = checkoutErrors(e.Failure)
		next.IsFetching = false
		return &next

	case InitRequest:
		next := *s
		next.IsFetching = true
		next.IsSessionExpired = false
		next.Restaurant = e.Restaurant
		next.Cart = nil
		next.Menu = nil
		return &next

	case ResetRestaurant:
		next := *s
		next.Restaurant = e.Restaurant
		next.Cart = nil
		next.Menu = nil
		return &next

	case InitSuccess:
		next := *s
		next.IsFetching = false
		next.Restaurant = e.Restaurant
		next.Cart = normalizeCart(e.Cart)
		next.Menu = nil
		if e.Restaurant != nil {
			hasMenu := e.Restaurant.HasMenu
			next.Menu = &hasMenu
		}
		next.Token = e.Token
		// a fresh cart carries no judgement on the address
		next.IsAddressOK = nil
		next.ItemRequestStack = []string{}
		return &next

	case Clear:
		next := *s
		next.Cart = nil
		next.Address = nil
		next.Date = nil
		next.ItemRequestStack = []string{}
		return &next

	case RemoveItem:
		if s.Cart == nil {
			return s
		}
		if _, ok := s.Cart.Item(e.ID); !ok {
			return s
		}
		cart := *s.Cart
		cart.Items = make([]domain.CartItem, 0, len(s.Cart.Items))
		for _, item := range s.Cart.Items {
			if item.ID != e.ID {
				cart.Items = append(cart.Items, item)
			}
		}
		next := *s
		next.Cart = &cart
		return &next

	case UpdateItemQuantity:
		if s.Cart == nil {
			return s
		}
		if _, ok := s.Cart.Item(e.Item.ID); !ok {
			return s
		}
		cart := *s.Cart
		cart.Items = make([]domain.CartItem, len(s.Cart.Items))
		for i, item := range s.Cart.Items {
			if item.ID == e.Item.ID {
				item.Quantity = e.Quantity
			}
			cart.Items[i] = item
		}
		next := *s
		next.Cart = &cart
		return &next

	case UpdateCartSuccess:
		next := *s
		next.Cart = normalizeCart(e.Cart)
		return &next

	case SetAddress:
		next := *s
		next.Address = e.Address
		return &next

	case SetAddressOK:
		next := *s
		ok := e.OK
		next.IsAddressOK = &ok
		return &next

	case SetDate:
		next := *s
		next.Date = e.Date
		return &next

	case SetTiming:
		next := *s
		next.Timing = e.Timing
		return &next

	case SetCartValidation:
		next := *s
		isValid := e.IsValid
		next.IsValid = &isValid
		next.Violations = append([]domain.Violation{}, e.Violations...)
		return &next

	case SetCheckoutLoading:
		next := *s
		next.IsLoading = e.Loading
		return &next

	case AddItemRequest:
		next := *s
		next.ItemRequestStack = pushRequest(s.ItemRequestStack, e.Identifier)
		next.AddressModalMessage = ""
		return &next

	case AddItemRequestFinished:
		stack, ok := releaseRequest(s.ItemRequestStack, e.Identifier)
		if !ok {
			return s
		}
		next := *s
		next.ItemRequestStack = stack
		return &next

	case ShowAddressModal, HideAddressModal, SetAddressModalMessage, SetAddressModalHidden,
		ShowExpiredSessionModal, HideExpiredSessionModal, SessionExpired:
		return applyModal(s, e)
	}

	return s
}

func checkoutErrors(failure domain.Failure) []string {
	if !failure.Recognized {
		return []string{TryLaterMessage}
	}
	errors := make([]string, 0, len(failure.Violations))
	for _, violation := range failure.Violations {
		errors = append(errors, violation.Message)
	}
	return errors
}

// normalizeCart copies a server cart and drops repeated item ids, keeping the
// first occurrence.
func normalizeCart(cart *domain.Cart) *domain.Cart {
	if cart == nil {
		return nil
	}
	out := cart.Clone()
	if out.Items == nil {
		out.Items = []domain.CartItem{}
		return out
	}
	seen := make(map[int64]struct{}, len(out.Items))
	items := out.Items[:0]
	for _, item := range out.Items {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	out.Items = items
	return out
}
