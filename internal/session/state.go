package session

import (
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
)

// TryLaterMessage is the translation key surfaced when a checkout failure
// carries no recognizable violations.
const TryLaterMessage = "TRY_LATER"

// State is the checkout session aggregate. A published State is never
// modified; Transition returns a new value whenever something changes.
type State struct {
	Restaurant  *domain.Restaurant  `json:"restaurant"`
	Cart        *domain.Cart        `json:"cart"`
	Menu        *bool               `json:"menu"`
	Address     *domain.Address     `json:"address"`
	IsAddressOK *bool               `json:"isAddressOK"`
	Date        *time.Time          `json:"date"`
	Timing      *domain.Timing      `json:"timing"`
	Restaurants []domain.Restaurant `json:"restaurants"`
	Token       string              `json:"token,omitempty"`

	IsFetching bool     `json:"isFetching"`
	IsLoading  bool     `json:"isLoading"`
	Errors     []string `json:"errors"`

	IsValid    *bool              `json:"isValid"`
	Violations []domain.Violation `json:"violations"`

	ItemRequestStack []string `json:"itemRequestStack"`

	IsAddressModalVisible bool   `json:"isAddressModalVisible"`
	AddressModalMessage   string `json:"addressModalMessage"`
	// IsAddressModalHidden turns true once the UI reports the address modal
	// fully dismissed; the expired session modal must wait for it.
	IsAddressModalHidden bool `json:"isAddressModalHidden"`

	IsExpiredSessionModalVisible bool `json:"isExpiredSessionModalVisible"`
	IsSessionExpired             bool `json:"isSessionExpired"`
}

func NewState() *State {
	return &State{
		Restaurants:          []domain.Restaurant{},
		Errors:               []string{},
		Violations:           []domain.Violation{},
		ItemRequestStack:     []string{},
		IsAddressModalHidden: true,
	}
}

// IsSyncing reports whether item mutations are still awaiting the server.
func (s *State) IsSyncing() bool {
	return len(s.ItemRequestStack) > 0
}

// Rehydrate prepares a persisted snapshot for a new process: in-flight
// bookkeeping and dialog state do not survive a restart.
func Rehydrate(snapshot *State) *State {
	if snapshot == nil {
		return NewState()
	}
	next := *snapshot
	next.IsFetching = false
	next.IsLoading = false
	next.ItemRequestStack = []string{}
	next.IsAddressModalVisible = false
	next.AddressModalMessage = ""
	next.IsAddressModalHidden = true
	next.IsExpiredSessionModalVisible = false
	if next.Restaurants == nil {
		next.Restaurants = []domain.Restaurant{}
	}
	if next.Errors == nil {
		next.Errors = []string{}
	}
	if next.Violations == nil {
		next.Violations = []domain.Violation{}
	}
	return &next
}
