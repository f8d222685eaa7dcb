package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/orderup/orderup-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether any user, active or not, holds email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindWithAddresses loads a user and their addresses, default address first.
func (r *Repository) FindWithAddresses(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_default DESC").Order("created_at ASC")
		}).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListFilter holds the optional admin list filters.
type ListFilter struct {
	Search   *string
	Role     *enums.UserRole
	IsActive *bool
}

func (f ListFilter) scope(q *gorm.DB) *gorm.DB {
	if f.Search != nil {
		pattern := db.ContainsPattern(*f.Search)
		q = q.Where(
			"("+db.ILike("users.first_name")+" OR "+db.ILike("users.last_name")+" OR "+db.ILike("users.email")+")",
			pattern, pattern, pattern,
		)
	}
	if f.Role != nil {
		q = q.Where("users.role = ?", *f.Role)
	}
	if f.IsActive != nil {
		q = q.Where("users.is_active = ?", *f.IsActive)
	}
	return q
}

// List returns one page of users, newest first, and the total match count.
func (r *Repository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]models.User, int64, error) {
	var rows []models.User
	total, err := db.FindPage(ctx, r.db, db.PageQuery{
		Filter: filter.scope,
		Order:  "users.created_at DESC",
		Offset: offset,
		Limit:  limit,
	}, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateFields applies a partial update. Keys are column names.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdatePasswordHash stores a new password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.UpdateFields(ctx, id, map[string]any{"password_hash": hash})
}

// Deactivate flips is_active to false.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.UpdateFields(ctx, id, map[string]any{"is_active": false})
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
