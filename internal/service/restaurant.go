package service

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/session"
	"go.uber.org/zap"
)

// OpenRestaurant starts a new cart for the restaurant. A completion that
// arrives after another open or reset, even of the same restaurant, is dropped.
func (s *Service) OpenRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	if restaurant == nil {
		return ErrNoRestaurant
	}
	generation := s.opens.Add(1)
	latest := func(*session.State) bool { return s.opens.Load() == generation }

	s.store.Dispatch(session.InitRequest{Restaurant: restaurant})

	resp, err := s.backend.CreateSession(ctx, restaurant.ID)
	if err != nil {
		s.store.DispatchIf(latest, session.InitFailure{Err: err})
		s.expireOn(err)
		return fmt.Errorf("failed to open restaurant %d: %w", restaurant.ID, err)
	}

	cart := resp.Cart
	success := session.InitSuccess{Restaurant: restaurant, Cart: &cart, Token: resp.Token}
	if _, ok := s.store.DispatchIf(latest, success); !ok {
		s.logger.Debug("stale session dropped", zap.Int64("restaurant_id", restaurant.ID))
		return nil
	}
	s.logger.Info("session opened",
		zap.Int64("restaurant_id", restaurant.ID),
		zap.Int64("cart_id", cart.ID))

	if err := s.LoadTiming(ctx); err != nil {
		s.logger.Warn("failed to load timing", zap.Error(err))
	}
	return nil
}

// ResetRestaurant switches restaurant locally without opening a cart.
func (s *Service) ResetRestaurant(restaurant *domain.Restaurant) {
	s.opens.Add(1)
	s.store.Dispatch(session.ResetRestaurant{Restaurant: restaurant})
}

func (s *Service) LoadRestaurants(ctx context.Context) error {
	s.store.Dispatch(session.LoadRestaurantsRequest{})

	restaurants, err := s.backend.LoadRestaurants(ctx)
	if err != nil {
		s.store.Dispatch(session.LoadRestaurantsFailure{Err: err})
		return fmt.Errorf("failed to load restaurants: %w", err)
	}

	s.store.Dispatch(session.LoadRestaurantsSuccess{Restaurants: restaurants})
	return nil
}

// LoadTiming refreshes the shipping time windows of the current restaurant.
func (s *Service) LoadTiming(ctx context.Context) error {
	restaurant := s.store.State().Restaurant
	if restaurant == nil {
		return ErrNoRestaurant
	}

	timing, err := s.backend.LoadTiming(ctx, restaurant.ID)
	if err != nil {
		return fmt.Errorf("failed to load timing: %w", err)
	}

	if current := s.store.State().Restaurant; current == nil || current.ID != restaurant.ID {
		return nil
	}
	s.store.Dispatch(session.SetTiming{Timing: timing})
	return nil
}
