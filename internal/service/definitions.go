package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fjod/go_cart/session-service/internal/api"
	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/modal"
	"github.com/fjod/go_cart/session-service/internal/publisher"
	"github.com/fjod/go_cart/session-service/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Backend is the subset of the ordering API the coordinator needs.
type Backend interface {
	CreateSession(ctx context.Context, restaurantID int64) (*api.SessionResponse, error)
	AddItem(ctx context.Context, token string, cartID int64, productCode string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, token string, cartID, itemID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, token string, cartID, itemID int64) (*domain.Cart, error)
	AssignAddress(ctx context.Context, token string, cartID int64, address domain.Address) (*domain.Cart, error)
	SetShippingTime(ctx context.Context, token string, cartID int64, shippedAt *time.Time) (*domain.Cart, error)
	SetFulfillmentMethod(ctx context.Context, token string, cartID int64, method domain.FulfillmentMethod) (*domain.Cart, error)
	Validate(ctx context.Context, token string, cartID int64) (*domain.Cart, error)
	Checkout(ctx context.Context, token string, cartID int64, paymentToken string) (*domain.Cart, error)
	LoadRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	LoadTiming(ctx context.Context, restaurantID int64) (*domain.Timing, error)
}

type EventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, event publisher.CheckoutCompleted) error
}

const (
	defaultExpireTimeout = 2 * time.Minute
	// bounds calls shared between callers, which outlive any single caller
	defaultSharedTimeout = 10 * time.Second
)

// Service issues backend calls on behalf of the session and feeds their
// outcomes back into the store as events.
type Service struct {
	store     *session.Store
	backend   Backend
	modals    *modal.Orchestrator
	events    EventPublisher
	sessionID string
	logger    *zap.Logger

	// opens counts restaurant switches; a session reply is kept only for the latest one
	opens atomic.Uint64

	validation    singleflight.Group
	sharedTimeout time.Duration
	expireTimeout time.Duration
	now           func() time.Time
}

func NewService(
	store *session.Store,
	backend Backend,
	modals *modal.Orchestrator,
	events EventPublisher,
	sessionID string,
	logger *zap.Logger) *Service {

	return &Service{
		store:         store,
		backend:       backend,
		modals:        modals,
		events:        events,
		sessionID:     sessionID,
		logger:        logger.With(zap.String("session_id", sessionID)),
		sharedTimeout: defaultSharedTimeout,
		expireTimeout: defaultExpireTimeout,
		now:           time.Now,
	}
}

func (s *Service) State() *session.State {
	return s.store.State()
}
