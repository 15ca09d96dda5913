package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/publisher"
	"github.com/fjod/go_cart/session-service/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ValidateCart asks the backend whether the cart can be ordered. Concurrent
// calls for the same cart token share one request; each caller stops waiting
// when its own ctx is done without cancelling the shared request.
func (s *Service) ValidateCart(ctx context.Context) (bool, error) {
	st := s.store.State()
	if st.Cart == nil || st.Token == "" {
		return false, ErrNoSession
	}

	results := s.validation.DoChan(st.Token, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sharedTimeout)
		defer cancel()
		return s.backend.Validate(callCtx, st.Token, st.Cart.ID)
	})

	var res singleflight.Result
	select {
	case res = <-results:
	case <-ctx.Done():
		return false, fmt.Errorf("failed to validate cart: %w", ctx.Err())
	}
	if res.Shared {
		s.logger.Debug("validation shared")
	}
	err := res.Err

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		s.setValidation(st.Token, false, verr.Violations)
		return false, nil
	case err != nil:
		s.expireOn(err)
		return false, fmt.Errorf("failed to validate cart: %w", err)
	}

	s.setValidation(st.Token, true, nil)
	return true, nil
}

func (s *Service) setValidation(token string, valid bool, violations []domain.Violation) {
	s.store.DispatchIf(func(st *session.State) bool { return st.Token == token },
		session.SetCartValidation{IsValid: valid, Violations: violations})
}

// Checkout pays for the cart. On success the order is announced and the cart
// cleared; on failure the reasons end up in the session errors.
func (s *Service) Checkout(ctx context.Context, paymentToken string) error {
	st := s.store.State()
	if st.Cart == nil || st.Token == "" {
		return ErrNoSession
	}
	if st.Cart.ItemsCount() == 0 {
		return domain.ErrEmptyCart
	}

	s.store.Dispatch(session.CheckoutRequest{})
	s.store.Dispatch(session.SetCheckoutLoading{Loading: true})
	defer s.store.Dispatch(session.SetCheckoutLoading{Loading: false})

	cart, err := s.backend.Checkout(ctx, st.Token, st.Cart.ID, paymentToken)
	if err != nil {
		s.store.Dispatch(session.CheckoutFailure{Failure: domain.FailureFromError(err)})
		s.expireOn(err)
		return fmt.Errorf("checkout failed: %w", err)
	}
	if cart == nil {
		cart = st.Cart
	}

	s.store.Dispatch(session.CheckoutSuccess{})
	s.publishCompleted(ctx, st, cart)
	s.store.Dispatch(session.Clear{})
	return nil
}

func (s *Service) publishCompleted(ctx context.Context, st *session.State, cart *domain.Cart) {
	if s.events == nil {
		return
	}
	event := publisher.CheckoutCompleted{
		SessionID:   s.sessionID,
		CartID:      cart.ID,
		Items:       cart.Items,
		TotalAmount: cart.Total,
		Fulfillment: string(cart.FulfillmentMethod),
		CompletedAt: s.now().UTC(),
	}
	if st.Restaurant != nil {
		event.RestaurantID = st.Restaurant.ID
	}
	// the order is placed; a lost announcement must not fail checkout
	if err := s.events.PublishCheckoutCompleted(ctx, event); err != nil {
		s.logger.Error("failed to publish checkout", zap.Int64("cart_id", cart.ID), zap.Error(err))
	}
}

// expireOn starts the expiry sequence when err reports a revoked session. It
// runs detached because it may have to wait for the address dialog to go away.
func (s *Service) expireOn(err error) {
	if !errors.Is(err, domain.ErrSessionExpired) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.expireTimeout)
		defer cancel()
		if err := s.modals.ExpireSession(ctx); err != nil {
			s.logger.Warn("session expiry interrupted", zap.Error(err))
		}
	}()
}
