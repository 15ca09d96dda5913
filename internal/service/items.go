package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/session"
	"go.uber.org/zap"
)

const shippingAddressPath = "shippingAddress"

// AddItem adds a product to the cart. The product code stays on the request
// stack until the call settles, whatever its outcome.
func (s *Service) AddItem(ctx context.Context, productCode string, quantity int) error {
	st := s.store.State()
	if st.Cart == nil || st.Token == "" {
		return ErrNoSession
	}

	s.store.Dispatch(session.AddItemRequest{Identifier: productCode})
	defer s.store.Dispatch(session.AddItemRequestFinished{Identifier: productCode})

	cart, err := s.backend.AddItem(ctx, st.Token, st.Cart.ID, productCode, quantity)
	if err != nil {
		s.refused(err)
		s.expireOn(err)
		return fmt.Errorf("failed to add item %s: %w", productCode, err)
	}

	s.applyCart(st.Token, cart)
	return nil
}

// UpdateItemQuantity applies the new quantity locally before the backend
// confirms it. A zero or negative quantity removes the item.
func (s *Service) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}
	st := s.store.State()
	if st.Cart == nil || st.Token == "" {
		return ErrNoSession
	}
	item, ok := st.Cart.Item(itemID)
	if !ok {
		return ErrItemNotFound
	}

	s.store.Dispatch(session.UpdateItemQuantity{Item: item, Quantity: quantity})

	cart, err := s.backend.UpdateItem(ctx, st.Token, st.Cart.ID, itemID, quantity)
	if err != nil {
		s.revertQuantity(st.Token, item, quantity)
		s.expireOn(err)
		return fmt.Errorf("failed to update item %d: %w", itemID, err)
	}

	s.applyCart(st.Token, cart)
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, itemID int64) error {
	st := s.store.State()
	if st.Cart == nil || st.Token == "" {
		return ErrNoSession
	}
	item, ok := st.Cart.Item(itemID)
	if !ok {
		return ErrItemNotFound
	}
	position := slices.IndexFunc(st.Cart.Items, func(i domain.CartItem) bool { return i.ID == itemID })

	s.store.Dispatch(session.RemoveItem{ID: itemID})

	cart, err := s.backend.RemoveItem(ctx, st.Token, st.Cart.ID, itemID)
	if err != nil {
		s.restoreItem(st.Token, item, position)
		s.expireOn(err)
		return fmt.Errorf("failed to remove item %d: %w", itemID, err)
	}

	s.applyCart(st.Token, cart)
	return nil
}

func (s *Service) ClearCart() {
	s.store.Dispatch(session.Clear{})
}

// applyCart installs a server cart unless the session moved on since the
// request was issued.
func (s *Service) applyCart(token string, cart *domain.Cart) bool {
	if cart == nil {
		return false
	}
	_, applied := s.store.DispatchIf(func(st *session.State) bool {
		return st.Token == token && st.Cart != nil
	}, session.UpdateCartSuccess{Cart: cart})
	if !applied {
		s.logger.Debug("stale cart dropped", zap.Int64("cart_id", cart.ID))
	}
	return applied
}

// revertQuantity undoes a failed optimistic update, unless a later change has
// already replaced the optimistic quantity.
func (s *Service) revertQuantity(token string, item domain.CartItem, optimistic int) {
	s.store.DispatchIf(func(st *session.State) bool {
		current, ok := st.Cart.Item(item.ID)
		return st.Token == token && ok && current.Quantity == optimistic
	}, session.UpdateItemQuantity{Item: item, Quantity: item.Quantity})
}

// restoreItem puts back an item whose removal failed. The item is inserted into
// the cart as it is now, so carts installed meanwhile are kept.
func (s *Service) restoreItem(token string, item domain.CartItem, position int) {
	for {
		current := s.store.State()
		if current.Token != token || current.Cart == nil {
			return
		}
		if _, ok := current.Cart.Item(item.ID); ok {
			return
		}
		cart := current.Cart.Clone()
		cart.Items = slices.Insert(cart.Items, min(position, len(cart.Items)), item)

		unchanged := func(st *session.State) bool { return st == current }
		if _, ok := s.store.DispatchIf(unchanged, session.UpdateCartSuccess{Cart: cart}); ok {
			return
		}
	}
}

// refused raises the address dialog when the backend rejects an operation
// because of the shipping address.
func (s *Service) refused(err error) {
	failure := domain.FailureFromError(err)
	if !failure.Recognized {
		return
	}
	for _, v := range failure.Violations {
		if v.PropertyPath == shippingAddressPath {
			s.modals.ShowAddress(v.Message)
			return
		}
	}
}
