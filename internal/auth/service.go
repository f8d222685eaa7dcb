package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orderup/orderup-backend/internal/users"
	pkgAuth "github.com/orderup/orderup-backend/pkg/auth"
	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/orderup/orderup-backend/pkg/enums"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage  = "Invalid credentials"
	accountDeactivatedMessage  = "Account is deactivated"
	invalidRefreshTokenMessage = "Invalid refresh token"
	userExistsMessage          = "User already exists with this email"
)

var errEmailTaken = errors.New("email already registered")

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
}

type service struct {
	users    *users.Repository
	dbClient *db.Client
	jwtCfg   config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo  *users.Repository
	DB        *db.Client
	JWTConfig config.JWTConfig
	Password  config.PasswordConfig
	Logger    *logger.Logger
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:    params.UserRepo,
		dbClient: params.DB,
		jwtCfg:   params.JWTConfig,
		password: params.Password,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.users.WithTx(tx)
		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return errEmailTaken
		}

		var phone *string
		if req.Phone != nil {
			if p := strings.TrimSpace(*req.Phone); p != "" {
				phone = &p
			}
		}
		created, err = repo.Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Phone:        phone,
			Role:         enums.UserRoleCustomer,
			IsActive:     true,
		})
		return err
	})
	switch {
	case errors.Is(err, errEmailTaken), db.IsUniqueViolation(err, ""):
		return nil, pkgerrors.Wrap(pkgerrors.CodeAlreadyExists, err, userExistsMessage)
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register user")
	}

	resp, err := s.issueTokens(created)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, created.ID.String()), "user.registered")
	return resp, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, accountDeactivatedMessage)
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil && !errors.Is(err, security.ErrInvalidHash) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if security.NeedsRehash(user.PasswordHash, s.password) {
		s.upgradeHash(ctx, user, req.Password)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user.logged_in")
	return resp, nil
}

// upgradeHash replaces a legacy or outdated hash. Failure leaves the old hash
// in place and does not fail the login.
func (s *service) upgradeHash(ctx context.Context, user *models.User, password string) {
	ctx = s.logg.WithUserID(ctx, user.ID.String())
	hash, err := security.HashPassword(password, s.password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "user.password_rehash_failed")
		return
	}
	user.PasswordHash = hash
	s.logg.Info(ctx, "user.password_rehashed")
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseRefreshToken(s.jwtCfg, strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidRefreshTokenMessage)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidRefreshTokenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidRefreshTokenMessage)
	}

	access, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), payloadFor(user))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user.token_refreshed")
	return &RefreshResponse{
		User:        users.FromModel(user),
		AccessToken: access,
		ExpiresIn:   int64(s.jwtCfg.AccessTTL.Seconds()),
	}, nil
}

func payloadFor(user *models.User) pkgAuth.TokenPayload {
	return pkgAuth.TokenPayload{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func (s *service) issueTokens(user *models.User) (*AuthResponse, error) {
	now := s.now()
	access, err := pkgAuth.MintAccessToken(s.jwtCfg, now, payloadFor(user))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := pkgAuth.MintRefreshToken(s.jwtCfg, now, payloadFor(user))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}
	return &AuthResponse{
		User:         users.FromModel(user),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtCfg.AccessTTL.Seconds()),
	}, nil
}
