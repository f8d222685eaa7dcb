package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/enums"
)

// Identity is the caller resolved by Authenticate or OptionalAuth.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == enums.UserRoleAdmin
}

type identityKey struct{}

// WithIdentity stores the caller on the context for downstream guards and handlers.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

func UserIDFromContext(ctx context.Context) uuid.UUID {
	identity, _ := IdentityFromContext(ctx)
	return identity.UserID
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	identity, _ := IdentityFromContext(ctx)
	return identity.Role
}
