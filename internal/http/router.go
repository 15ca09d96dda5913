package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func NewRouter(h *SessionHandler, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(middleware.RequestID)
	r.Use(AccessLogMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/restaurants", h.ListRestaurants)
		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/restaurant", h.OpenRestaurant)
			r.Delete("/cart", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{id}", h.UpdateQuantity)
			r.Delete("/items/{id}", h.RemoveItem)
			r.Put("/address", h.SetAddress)
			r.Put("/date", h.SetDate)
			r.Put("/fulfillment", h.SetFulfillmentMethod)
			r.Post("/validate", h.Validate)
			r.Post("/checkout", h.Checkout)
			r.Post("/modals/address/hidden", h.AddressModalHidden)
			r.Delete("/modals/{kind}", h.DismissModal)
		})
	})

	return otelhttp.NewHandler(r, "session-service")
}
