package middleware

import (
	"net/http"

	"github.com/orderup/orderup-backend/api/responses"
)

// ErrorDetails turns on debug objects in error envelopes when enabled is true.
// Callers pass config.AppConfig.ErrorDetailsEnabled, which is never true in production.
func ErrorDetails(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(responses.WithDebug(r.Context())))
		})
	}
}
