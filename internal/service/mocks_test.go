package service

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/session-service/internal/api"
	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/publisher"
)

// MockBackend implements Backend for testing
type MockBackend struct {
	mu sync.Mutex

	Session     *api.SessionResponse
	Cart        *domain.Cart
	Restaurants []domain.Restaurant
	Timing      *domain.Timing
	Err         error
	ValidateErr error

	// Block, when set, holds every call until it is closed.
	Block chan struct{}

	// Per-method overrides, called after Block.
	CreateSessionFn func(restaurantID int64) (*api.SessionResponse, error)
	UpdateItemFn    func() (*domain.Cart, error)
	RemoveItemFn    func() (*domain.Cart, error)

	Calls         []string
	ValidateCalls int
	AssignedTo    *domain.Address
	ShippedAt     *time.Time
}

func (m *MockBackend) record(name string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, name)
	m.mu.Unlock()
	if m.Block != nil {
		<-m.Block
	}
}

func (m *MockBackend) cart() (*domain.Cart, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Cart.Clone(), nil
}

func (m *MockBackend) CreateSession(_ context.Context, restaurantID int64) (*api.SessionResponse, error) {
	m.record("CreateSession")
	if m.CreateSessionFn != nil {
		return m.CreateSessionFn(restaurantID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}

func (m *MockBackend) validateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ValidateCalls
}

func (m *MockBackend) AddItem(_ context.Context, _ string, _ int64, _ string, _ int) (*domain.Cart, error) {
	m.record("AddItem")
	return m.cart()
}

func (m *MockBackend) UpdateItem(_ context.Context, _ string, _, _ int64, _ int) (*domain.Cart, error) {
	m.record("UpdateItem")
	if m.UpdateItemFn != nil {
		return m.UpdateItemFn()
	}
	return m.cart()
}

func (m *MockBackend) RemoveItem(_ context.Context, _ string, _, _ int64) (*domain.Cart, error) {
	m.record("RemoveItem")
	if m.RemoveItemFn != nil {
		return m.RemoveItemFn()
	}
	return m.cart()
}

func (m *MockBackend) AssignAddress(_ context.Context, _ string, _ int64, address domain.Address) (*domain.Cart, error) {
	m.record("AssignAddress")
	m.AssignedTo = &address
	return m.cart()
}

func (m *MockBackend) SetShippingTime(_ context.Context, _ string, _ int64, shippedAt *time.Time) (*domain.Cart, error) {
	m.record("SetShippingTime")
	m.ShippedAt = shippedAt
	return m.cart()
}

func (m *MockBackend) SetFulfillmentMethod(_ context.Context, _ string, _ int64, _ domain.FulfillmentMethod) (*domain.Cart, error) {
	m.record("SetFulfillmentMethod")
	return m.cart()
}

func (m *MockBackend) Validate(ctx context.Context, _ string, _ int64) (*domain.Cart, error) {
	m.mu.Lock()
	m.ValidateCalls++
	m.mu.Unlock()
	m.record("Validate")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return m.Cart, nil
}

func (m *MockBackend) Checkout(_ context.Context, _ string, _ int64, _ string) (*domain.Cart, error) {
	m.record("Checkout")
	return m.cart()
}

func (m *MockBackend) LoadRestaurants(_ context.Context) ([]domain.Restaurant, error) {
	m.record("LoadRestaurants")
	return m.Restaurants, m.Err
}

func (m *MockBackend) LoadTiming(_ context.Context, _ int64) (*domain.Timing, error) {
	m.record("LoadTiming")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Timing, nil
}

// MockPublisher implements EventPublisher for testing
type MockPublisher struct {
	Events []publisher.CheckoutCompleted
	Err    error
}

func (m *MockPublisher) PublishCheckoutCompleted(_ context.Context, event publisher.CheckoutCompleted) error {
	m.Events = append(m.Events, event)
	return m.Err
}
