package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/api/responses"
	pkgAuth "github.com/orderup/orderup-backend/pkg/auth"
	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/logger"
)

// UserLookup resolves the subject of a verified token.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

var errMissingToken = errors.New("missing bearer token")

// Authenticate validates the bearer token, loads the active user it names and
// seeds the request context with the caller identity.
func Authenticate(cfg config.JWTConfig, users UserLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolveIdentity(r, cfg, users)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(attachIdentity(r.Context(), logg, identity)))
		})
	}
}

// OptionalAuth attaches an identity when a usable token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(cfg config.JWTConfig, users UserLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := bearerToken(r); !ok {
				next.ServeHTTP(w, r)
				return
			}
			identity, err := resolveIdentity(r, cfg, users)
			if err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "reason", err.Error())
					logg.Warn(ctx, "auth.optional.failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(attachIdentity(r.Context(), logg, identity)))
		})
	}
}

func resolveIdentity(r *http.Request, cfg config.JWTConfig, users UserLookup) (Identity, error) {
	token, ok := bearerToken(r)
	if !ok {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, errMissingToken, "Access token required")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	switch {
	case errors.Is(err, pkgAuth.ErrTokenExpired):
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Token expired")
	case errors.Is(err, pkgAuth.ErrTokenInvalid):
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid token")
	case err != nil:
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeAuthFailed, err, "Authentication failed")
	}

	user, err := users.FindByID(r.Context(), claims.UserID)
	if err != nil && !db.IsNotFound(err) {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeAuthFailed, err, "Authentication failed")
	}
	if user == nil || !user.IsActive {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid or inactive user")
	}

	return Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(raw[7:])
	return token, token != ""
}

func attachIdentity(ctx context.Context, logg *logger.Logger, identity Identity) context.Context {
	ctx = WithIdentity(ctx, identity)
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"user_id":    identity.UserID.String(),
			"actor_role": identity.Role.String(),
		})
	}
	return ctx
}
