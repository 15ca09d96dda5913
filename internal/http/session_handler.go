package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/modal"
	"github.com/fjod/go_cart/session-service/internal/selectors"
	"github.com/fjod/go_cart/session-service/internal/session"
	"github.com/go-chi/chi/v5"
)

const maxQuantity = 99

type SessionService interface {
	State() *session.State
	LoadRestaurants(ctx context.Context) error
	OpenRestaurant(ctx context.Context, restaurant *domain.Restaurant) error
	ClearCart()
	AddItem(ctx context.Context, productCode string, quantity int) error
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, itemID int64) error
	SetAddress(ctx context.Context, address *domain.Address) error
	SetDate(ctx context.Context, date *time.Time) error
	SetFulfillmentMethod(ctx context.Context, method domain.FulfillmentMethod) error
	ValidateCart(ctx context.Context) (bool, error)
	Checkout(ctx context.Context, paymentToken string) error
}

type ModalController interface {
	DismissAddress()
	AddressDismissed()
	DismissExpiredSession()
}

type SessionHandler struct {
	service SessionService
	modals  ModalController
	timeout time.Duration
}

func NewSessionHandler(service SessionService, modals ModalController, timeout time.Duration) *SessionHandler {
	return &SessionHandler{service: service, modals: modals, timeout: timeout}
}

type OpenRestaurantRequestDTO struct {
	RestaurantID int64 `json:"restaurant_id"`
}

type AddItemRequestDTO struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type DateRequestDTO struct {
	Date *time.Time `json:"date"`
}

type FulfillmentRequestDTO struct {
	Method domain.FulfillmentMethod `json:"method"`
}

type CheckoutRequestDTO struct {
	PaymentToken string `json:"payment_token"`
}

// SessionView is the session state plus the values derived from it.
type SessionView struct {
	*session.State
	DeliveryTotal       int64                      `json:"deliveryTotal"`
	ShippingDate        *time.Time                 `json:"shippingDate"`
	IsShippingAsap      bool                       `json:"isShippingAsap"`
	FulfillmentMethod   domain.FulfillmentMethod   `json:"fulfillmentMethod"`
	FulfillmentMethods  []domain.FulfillmentMethod `json:"fulfillmentMethods"`
	IsDeliveryEnabled   bool                       `json:"isDeliveryEnabled"`
	IsCollectionEnabled bool                       `json:"isCollectionEnabled"`
	ItemsCount          int                        `json:"itemsCount"`
	IsSyncing           bool                       `json:"isSyncing"`
	ActiveModal         modal.Kind                 `json:"activeModal"`
}

func newSessionView(s *session.State) SessionView {
	view := SessionView{
		State:               s,
		DeliveryTotal:       selectors.DeliveryTotal(s),
		IsShippingAsap:      selectors.IsShippingAsap(s),
		FulfillmentMethod:   selectors.CartFulfillmentMethod(s),
		FulfillmentMethods:  selectors.FulfillmentMethods(s),
		IsDeliveryEnabled:   selectors.IsDeliveryEnabled(s),
		IsCollectionEnabled: selectors.IsCollectionEnabled(s),
		ItemsCount:          selectors.ItemsCount(s),
		IsSyncing:           selectors.IsSyncing(s),
		ActiveModal:         modal.Active(s),
	}
	if date, ok := selectors.ShippingDate(s); ok {
		view.ShippingDate = &date
	}
	return view
}

func (h *SessionHandler) respondState(w http.ResponseWriter, status int) {
	respondJSON(w, status, newSessionView(h.service.State()))
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.service.LoadRestaurants(ctx); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.service.State().Restaurants)
}

func (h *SessionHandler) OpenRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OpenRestaurantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RestaurantID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_restaurant_id", "restaurant_id must be positive")
		return
	}

	restaurant := findRestaurant(h.service.State(), req.RestaurantID)
	if restaurant == nil {
		if err := h.service.LoadRestaurants(ctx); err != nil {
			handleServiceError(w, err)
			return
		}
		restaurant = findRestaurant(h.service.State(), req.RestaurantID)
	}
	if restaurant == nil {
		respondError(w, http.StatusNotFound, "not_found", "restaurant not found")
		return
	}

	if err := h.service.OpenRestaurant(ctx, restaurant); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusCreated)
}

func findRestaurant(s *session.State, id int64) *domain.Restaurant {
	for i := range s.Restaurants {
		if s.Restaurants[i].ID == id {
			restaurant := s.Restaurants[i]
			return &restaurant
		}
	}
	return nil
}

func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCart()
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductCode == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_code", "product_code is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.service.AddItem(ctx, req.ProductCode, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusCreated)
}

func (h *SessionHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	if err := h.service.UpdateItemQuantity(ctx, itemID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveItem(ctx, itemID); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusOK)
}

func itemIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || itemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "id must be a positive integer")
		return 0, false
	}
	return itemID, true
}

func (h *SessionHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var address domain.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if address.StreetAddress == "" {
		respondError(w, http.StatusBadRequest, "invalid_address", "streetAddress is required")
		return
	}

	if err := h.service.SetAddress(ctx, &address); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) SetDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req DateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.service.SetDate(ctx, req.Date); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) SetFulfillmentMethod(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req FulfillmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Method != domain.FulfillmentDelivery && req.Method != domain.FulfillmentCollection {
		respondError(w, http.StatusBadRequest, "invalid_method", "method must be delivery or collection")
		return
	}

	if err := h.service.SetFulfillmentMethod(ctx, req.Method); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.service.ValidateCart(ctx); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentToken == "" {
		respondError(w, http.StatusBadRequest, "invalid_payment_token", "payment_token is required")
		return
	}

	if err := h.service.Checkout(ctx, req.PaymentToken); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondState(w, http.StatusOK)
}

// AddressModalHidden is reported by the UI once the address dialog has
// finished animating out.
func (h *SessionHandler) AddressModalHidden(w http.ResponseWriter, r *http.Request) {
	h.modals.AddressDismissed()
	h.respondState(w, http.StatusOK)
}

func (h *SessionHandler) DismissModal(w http.ResponseWriter, r *http.Request) {
	switch modal.Kind(chi.URLParam(r, "kind")) {
	case modal.Address:
		h.modals.DismissAddress()
	case modal.ExpiredSession:
		h.modals.DismissExpiredSession()
	default:
		respondError(w, http.StatusNotFound, "not_found", "unknown modal")
		return
	}
	h.respondState(w, http.StatusOK)
}
