// Package modal sequences the two blocking dialogs of a checkout session.
//
// The presentation layer renders one blocking dialog at a time and dismissal
// is animated. The address dialog reports the end of its dismissal through
// the hidden latch; the expired session dialog is only requested after that.
package modal

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/session-service/internal/session"
	"go.uber.org/zap"
)

type Kind string

const (
	None           Kind = "none"
	Address        Kind = "address"
	ExpiredSession Kind = "expired_session"
)

// Active returns the dialog the presentation layer should render. The address
// dialog keeps precedence until it is fully dismissed.
func Active(s *session.State) Kind {
	switch {
	case s.IsAddressModalVisible:
		return Address
	case !s.IsAddressModalHidden:
		return None
	case s.IsExpiredSessionModalVisible:
		return ExpiredSession
	}
	return None
}

type Orchestrator struct {
	store  *session.Store
	logger *zap.Logger
}

func NewOrchestrator(store *session.Store, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{store: store, logger: logger}
}

// ShowAddress raises the address dialog unless the expired session dialog is
// up. The latch drops in the same step so a concurrent expiry waits for this
// dialog to go away.
func (o *Orchestrator) ShowAddress(message string) bool {
	_, shown := o.store.DispatchIf(func(s *session.State) bool {
		return !s.IsExpiredSessionModalVisible
	}, session.SetAddressModalHidden{Hidden: false}, session.ShowAddressModal{Message: message})
	if !shown {
		o.logger.Debug("address dialog suppressed by expired session dialog")
	}
	return shown
}

func (o *Orchestrator) DismissAddress() {
	o.store.Dispatch(session.HideAddressModal{})
}

// AddressDismissed is called by the presentation layer once the dismissal
// animation has completed.
func (o *Orchestrator) AddressDismissed() {
	o.store.Dispatch(session.SetAddressModalHidden{Hidden: true})
}

func (o *Orchestrator) DismissExpiredSession() {
	o.store.Dispatch(session.HideExpiredSessionModal{})
}

// ShowExpiredSession shows the expired session dialog once the address
// dialog is out of the way.
func (o *Orchestrator) ShowExpiredSession(ctx context.Context) error {
	return o.afterAddress(ctx, session.ShowExpiredSessionModal{})
}

// ExpireSession marks the session expired with the same ordering as
// ShowExpiredSession.
func (o *Orchestrator) ExpireSession(ctx context.Context) error {
	if st := o.store.State(); st.IsSessionExpired && st.IsExpiredSessionModalVisible {
		return nil
	}
	if err := o.afterAddress(ctx, session.SessionExpired{}); err != nil {
		return err
	}
	o.logger.Info("session expired")
	return nil
}

func addressCleared(s *session.State) bool {
	return !s.IsAddressModalVisible && s.IsAddressModalHidden
}

// afterAddress dispatches e once the address dialog is fully hidden. If the
// dialog comes back meanwhile, it is hidden again and the wait starts over.
func (o *Orchestrator) afterAddress(ctx context.Context, e session.Event) error {
	for {
		if o.store.State().IsAddressModalVisible {
			o.store.Dispatch(session.HideAddressModal{})
		}
		_, err := o.store.WaitFor(ctx, func(s *session.State) bool {
			return addressCleared(s) || s.IsAddressModalVisible
		})
		if err != nil {
			return fmt.Errorf("waiting for address modal dismissal: %w", err)
		}
		if _, ok := o.store.DispatchIf(addressCleared, e); ok {
			return nil
		}
	}
}
