package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

var (
	// ErrTokenExpired is returned when a token was valid but its exp has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, malformed tokens and wrong token kinds.
	ErrTokenInvalid = errors.New("token invalid")
)

// MintAccessToken issues a signed access JWT using the configured TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	if err := checkMint(cfg.AccessSecret, cfg.AccessTTL, payload); err != nil {
		return "", err
	}

	claims := AccessTokenClaims{
		UserID:           payload.UserID,
		Email:            payload.Email,
		Role:             payload.Role,
		TokenType:        TokenTypeAccess,
		RegisteredClaims: registeredClaims(cfg.Issuer, now, cfg.AccessTTL, payload),
	}
	return sign(claims, cfg.AccessSecret)
}

// MintRefreshToken issues a signed refresh JWT with the refresh secret.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	if err := checkMint(cfg.RefreshSecret, cfg.RefreshTTL, payload); err != nil {
		return "", err
	}

	claims := RefreshTokenClaims{
		UserID:           payload.UserID,
		Email:            payload.Email,
		Role:             payload.Role,
		TokenType:        TokenTypeRefresh,
		RegisteredClaims: registeredClaims(cfg.Issuer, now, cfg.RefreshTTL, payload),
	}
	return sign(claims, cfg.RefreshSecret)
}

// ParseAccessToken validates the JWT string and returns typed claims.
// Errors wrap ErrTokenExpired or ErrTokenInvalid when the token itself is at fault.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	if err := parse(tokenString, claims, cfg.AccessSecret, cfg.Issuer); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrTokenInvalid, claims.TokenType)
	}
	return claims, nil
}

// ParseRefreshToken validates a refresh JWT against the refresh secret.
func ParseRefreshToken(cfg config.JWTConfig, tokenString string) (*RefreshTokenClaims, error) {
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("jwt refresh secret is required")
	}

	claims := &RefreshTokenClaims{}
	if err := parse(tokenString, claims, cfg.RefreshSecret, cfg.Issuer); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrTokenInvalid, claims.TokenType)
	}
	return claims, nil
}

func checkMint(secret string, ttl time.Duration, payload TokenPayload) error {
	if secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	if !payload.Role.IsValid() {
		return fmt.Errorf("invalid user role %q", payload.Role)
	}
	return nil
}

func registeredClaims(issuer string, now time.Time, ttl time.Duration, payload TokenPayload) jwt.RegisteredClaims {
	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   payload.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        jti,
	}
}

func sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

func parse(tokenString string, claims jwt.Claims, secret, issuer string) error {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwtSigningMethod.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		opts...,
	)
	if err == nil {
		return nil
	}
	return classify(err)
}

// classify maps jwt library failures onto the package sentinels. Anything
// that is not a recognised validation failure is returned untouched.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	default:
		return err
	}
}
