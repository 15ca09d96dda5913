package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/selectors"
	"github.com/fjod/go_cart/session-service/internal/session"
)

// SetAddress records the address and asks the backend to assign it. A refusal
// marks the address as not OK and shows the address dialog.
func (s *Service) SetAddress(ctx context.Context, address *domain.Address) error {
	s.store.Dispatch(session.SetAddress{Address: address})

	st := s.store.State()
	if address == nil || st.Cart == nil || st.Token == "" {
		return nil
	}

	cart, err := s.backend.AssignAddress(ctx, st.Token, st.Cart.ID, *address)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.store.Dispatch(session.SetAddressOK{OK: false})
			s.modals.ShowAddress(addressMessage(verr))
		}
		s.expireOn(err)
		return fmt.Errorf("failed to assign address: %w", err)
	}

	if s.applyCart(st.Token, cart) {
		s.store.Dispatch(session.SetAddressOK{OK: true})
	}
	return nil
}

func addressMessage(verr *domain.ValidationError) string {
	for _, v := range verr.Violations {
		if v.PropertyPath == shippingAddressPath {
			return v.Message
		}
	}
	if len(verr.Violations) > 0 {
		return verr.Violations[0].Message
	}
	return ""
}

// SetDate picks the shipping date; nil means as soon as possible.
func (s *Service) SetDate(ctx context.Context, date *time.Time) error {
	s.store.Dispatch(session.SetDate{Date: date})
	if st := s.store.State(); st.Cart == nil || st.Token == "" {
		return nil
	}
	return s.SetShippingTime(ctx, date)
}

func (s *Service) SetShippingTime(ctx context.Context, shippedAt *time.Time) error {
	st := s.store.State()
	if st.Cart == nil || st.Token == "" {
		return ErrNoSession
	}

	cart, err := s.backend.SetShippingTime(ctx, st.Token, st.Cart.ID, shippedAt)
	if err != nil {
		s.expireOn(err)
		return fmt.Errorf("failed to set shipping time: %w", err)
	}

	s.applyCart(st.Token, cart)
	return nil
}

func (s *Service) SetFulfillmentMethod(ctx context.Context, method domain.FulfillmentMethod) error {
	st := s.store.State()
	if st.Cart == nil || st.Token == "" {
		return ErrNoSession
	}
	if !slices.Contains(selectors.FulfillmentMethods(st), method) {
		return ErrFulfillmentUnavailable
	}

	cart, err := s.backend.SetFulfillmentMethod(ctx, st.Token, st.Cart.ID, method)
	if err != nil {
		s.expireOn(err)
		return fmt.Errorf("failed to set fulfillment method: %w", err)
	}

	s.applyCart(st.Token, cart)
	return nil
}
