package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/session-service/internal/api"
	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/internal/service"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error      string             `json:"error"`
	Code       string             `json:"code,omitempty"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError converts coordinator errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:      "request refused by backend",
			Code:       "validation_failed",
			Violations: verr.Violations,
		})
		return
	}

	var httpStatus int
	var code string

	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		httpStatus = http.StatusUnauthorized
		code = "session_expired"
	case errors.Is(err, service.ErrNoSession), errors.Is(err, service.ErrNoRestaurant):
		httpStatus = http.StatusConflict
		code = "no_session"
	case errors.Is(err, domain.ErrEmptyCart):
		httpStatus = http.StatusConflict
		code = "empty_cart"
	case errors.Is(err, service.ErrItemNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, service.ErrFulfillmentUnavailable):
		httpStatus = http.StatusBadRequest
		code = "fulfillment_unavailable"
	case errors.Is(err, api.ErrUnavailable):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		httpStatus = http.StatusBadGateway
		code = "backend_error"
	}

	respondError(w, httpStatus, code, err.Error())
}
