// Package selectors derives read-only views from session state. Results of
// slice-typed selectors are shared between callers and must not be modified.
package selectors

import (
	"slices"
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/session"
)

type shippingKey struct {
	cart   *domain.Cart
	timing *domain.Timing
}

var (
	deliveryTotals     = newMemo[*domain.Cart, int64]()
	shippingDates      = newMemo[shippingKey, time.Time]()
	fulfillmentMethods = newMemo[*domain.Restaurant, []domain.FulfillmentMethod]()
)

var defaultFulfillmentMethods = []domain.FulfillmentMethod{domain.FulfillmentDelivery}

// DeliveryTotal sums the delivery adjustments of the cart, in cents.
func DeliveryTotal(s *session.State) int64 {
	if s.Cart == nil {
		return 0
	}
	return deliveryTotals.get(s.Cart, func() int64 {
		var total int64
		for _, adjustment := range s.Cart.Adjustments[domain.AdjustmentDelivery] {
			total += adjustment.Amount
		}
		return total
	})
}

// ShippingDate returns the chosen shipping time, or the server's asap time
// when none was chosen. The second result is false when the state holds no
// cart or no usable time; callers are expected to check for a cart first.
func ShippingDate(s *session.State) (time.Time, bool) {
	if s.Cart == nil {
		return time.Time{}, false
	}
	date := shippingDates.get(shippingKey{cart: s.Cart, timing: s.Timing}, func() time.Time {
		if s.Cart.ShippedAt != nil {
			return *s.Cart.ShippedAt
		}
		if s.Timing != nil {
			return s.Timing.Asap
		}
		return time.Time{}
	})
	return date, !date.IsZero()
}

func IsShippingAsap(s *session.State) bool {
	return s.Cart == nil || s.Cart.ShippedAt == nil || s.Cart.ShippedAt.IsZero()
}

func CartFulfillmentMethod(s *session.State) domain.FulfillmentMethod {
	if s.Cart == nil || s.Cart.FulfillmentMethod == "" {
		return domain.FulfillmentDelivery
	}
	return s.Cart.FulfillmentMethod
}

// FulfillmentMethods lists the methods the restaurant declares, delivery only
// when it declares nothing.
func FulfillmentMethods(s *session.State) []domain.FulfillmentMethod {
	if s.Restaurant == nil || s.Restaurant.FulfillmentMethods == nil {
		return defaultFulfillmentMethods
	}
	return fulfillmentMethods.get(s.Restaurant, func() []domain.FulfillmentMethod {
		methods := make([]domain.FulfillmentMethod, 0, len(s.Restaurant.FulfillmentMethods))
		for _, option := range s.Restaurant.FulfillmentMethods {
			methods = append(methods, option.Type)
		}
		return methods
	})
}

func IsDeliveryEnabled(s *session.State) bool {
	return slices.Contains(FulfillmentMethods(s), domain.FulfillmentDelivery)
}

func IsCollectionEnabled(s *session.State) bool {
	return slices.Contains(FulfillmentMethods(s), domain.FulfillmentCollection)
}

func ItemsCount(s *session.State) int {
	return s.Cart.ItemsCount()
}

func IsSyncing(s *session.State) bool {
	return s.IsSyncing()
}
