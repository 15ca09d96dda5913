package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/session-service/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDMiddleware makes sure every request carries an X-Request-ID and
// echoes it back.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(middleware.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(middleware.RequestIDHeader, requestID)
		}
		w.Header().Set(middleware.RequestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

// AccessLogMiddleware logs one line per request, tagged with the active trace.
func AccessLogMiddleware(lg *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.WithTrace(r.Context(), lg).Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
