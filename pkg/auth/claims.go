package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/enums"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims represents the short-lived bearer token issued to clients.
type AccessTokenClaims struct {
	UserID    uuid.UUID      `json:"userId"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	TokenType string         `json:"tokenType"`
	jwt.RegisteredClaims
}

// RefreshTokenClaims is signed with its own secret and only ever exchanged
// for a new access token.
type RefreshTokenClaims struct {
	UserID    uuid.UUID      `json:"userId"`
	Email     string         `json:"email,omitempty"`
	Role      enums.UserRole `json:"role,omitempty"`
	TokenType string         `json:"tokenType"`
	jwt.RegisteredClaims
}
