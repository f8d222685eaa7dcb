package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/orderup/orderup-backend/api/responses"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/logger"
)

// RequireOwnership admits admins and callers whose id equals the named path parameter.
func RequireOwnership(param string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required"))
				return
			}
			if identity.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			target := strings.TrimSpace(chi.URLParam(r, param))
			if target == "" || !strings.EqualFold(target, identity.UserID.String()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
