package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// TrustedProxy rewrites RemoteAddr from True-Client-IP, X-Real-IP or
// X-Forwarded-For when enabled. Otherwise those headers are ignored.
func TrustedProxy(enabled bool) func(http.Handler) http.Handler {
	if !enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimw.RealIP
}
