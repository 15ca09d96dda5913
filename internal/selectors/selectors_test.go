package selectors

import (
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryTotal(t *testing.T) {
	s := session.NewState()
	assert.Equal(t, int64(0), DeliveryTotal(s))

	s.Cart = &domain.Cart{}
	assert.Equal(t, int64(0), DeliveryTotal(s), "cart without adjustments")

	s.Cart = &domain.Cart{Adjustments: map[string][]domain.Adjustment{"tax": {{Amount: 120}}}}
	assert.Equal(t, int64(0), DeliveryTotal(s), "no delivery bucket")

	s.Cart = &domain.Cart{Adjustments: map[string][]domain.Adjustment{
		domain.AdjustmentDelivery: {{Amount: 350}, {Amount: 150}},
	}}
	assert.Equal(t, int64(500), DeliveryTotal(s))
}

func TestDeliveryTotal_FollowsCartIdentity(t *testing.T) {
	s := session.NewState()
	s = session.Transition(s, session.UpdateCartSuccess{Cart: &domain.Cart{
		Items:       []domain.CartItem{{ID: 1, Quantity: 1}},
		Adjustments: map[string][]domain.Adjustment{domain.AdjustmentDelivery: {{Amount: 350}}},
	}})
	assert.Equal(t, int64(350), DeliveryTotal(s))

	s = session.Transition(s, session.UpdateCartSuccess{Cart: &domain.Cart{
		Items:       []domain.CartItem{{ID: 1, Quantity: 1}},
		Adjustments: map[string][]domain.Adjustment{domain.AdjustmentDelivery: {{Amount: 0}}},
	}})
	assert.Equal(t, int64(0), DeliveryTotal(s))
}

func TestShippingDate(t *testing.T) {
	asap := time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)
	later := asap.Add(2 * time.Hour)

	s := session.NewState()
	_, ok := ShippingDate(s)
	assert.False(t, ok)

	s.Timing = &domain.Timing{Asap: asap}
	s.Cart = &domain.Cart{}
	date, ok := ShippingDate(s)
	require.True(t, ok)
	assert.Equal(t, asap, date)
	assert.True(t, IsShippingAsap(s))

	s = session.Transition(s, session.UpdateCartSuccess{Cart: &domain.Cart{ShippedAt: &later}})
	date, ok = ShippingDate(s)
	require.True(t, ok)
	assert.Equal(t, later, date)
	assert.False(t, IsShippingAsap(s))
}

func TestCartFulfillmentMethod(t *testing.T) {
	s := session.NewState()
	s.Cart = &domain.Cart{}
	assert.Equal(t, domain.FulfillmentDelivery, CartFulfillmentMethod(s))

	s.Cart = &domain.Cart{FulfillmentMethod: domain.FulfillmentCollection}
	assert.Equal(t, domain.FulfillmentCollection, CartFulfillmentMethod(s))
}

func TestFulfillmentMethods(t *testing.T) {
	tests := []struct {
		name       string
		restaurant *domain.Restaurant
		methods    []domain.FulfillmentMethod
		delivery   bool
		collection bool
	}{
		{
			name:     "no restaurant",
			methods:  []domain.FulfillmentMethod{domain.FulfillmentDelivery},
			delivery: true,
		},
		{
			name:       "undeclared",
			restaurant: &domain.Restaurant{ID: 1},
			methods:    []domain.FulfillmentMethod{domain.FulfillmentDelivery},
			delivery:   true,
		},
		{
			name: "both",
			restaurant: &domain.Restaurant{ID: 2, FulfillmentMethods: []domain.FulfillmentMethodOption{
				{Type: domain.FulfillmentDelivery, Enabled: true},
				{Type: domain.FulfillmentCollection, Enabled: true},
			}},
			methods:    []domain.FulfillmentMethod{domain.FulfillmentDelivery, domain.FulfillmentCollection},
			delivery:   true,
			collection: true,
		},
		{
			name: "collection only",
			restaurant: &domain.Restaurant{ID: 3, FulfillmentMethods: []domain.FulfillmentMethodOption{
				{Type: domain.FulfillmentCollection, Enabled: true},
			}},
			methods:    []domain.FulfillmentMethod{domain.FulfillmentCollection},
			collection: true,
		},
		{
			name:       "declared empty",
			restaurant: &domain.Restaurant{ID: 4, FulfillmentMethods: []domain.FulfillmentMethodOption{}},
			methods:    []domain.FulfillmentMethod{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.NewState()
			s.Restaurant = tt.restaurant

			assert.Equal(t, tt.methods, FulfillmentMethods(s))
			assert.Equal(t, tt.delivery, IsDeliveryEnabled(s))
			assert.Equal(t, tt.collection, IsCollectionEnabled(s))
		})
	}
}

func TestSelectors_ConcurrentReaders(t *testing.T) {
	s := session.NewState()
	s.Cart = &domain.Cart{Adjustments: map[string][]domain.Adjustment{domain.AdjustmentDelivery: {{Amount: 200}}}}
	s.Restaurant = &domain.Restaurant{ID: 9}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, int64(200), DeliveryTotal(s))
			assert.True(t, IsDeliveryEnabled(s))
		}()
	}
	wg.Wait()
}

func TestItemsCountAndSyncing(t *testing.T) {
	s := session.NewState()
	assert.Equal(t, 0, ItemsCount(s))

	s = session.Transition(s, session.UpdateCartSuccess{Cart: &domain.Cart{Items: []domain.CartItem{{ID: 1, Quantity: 2}, {ID: 2, Quantity: 1}}}})
	s = session.Transition(s, session.AddItemRequest{Identifier: "a"})

	assert.Equal(t, 3, ItemsCount(s))
	assert.True(t, IsSyncing(s))
}
