package restaurants

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"gorm.io/gorm"
)

const recentReviewLimit = 10

const countsProjection = "restaurants.*, " +
	"(SELECT COUNT(*) FROM menu_items WHERE menu_items.restaurant_id = restaurants.id) AS menu_count, " +
	"(SELECT COUNT(*) FROM reviews WHERE reviews.restaurant_id = restaurants.id) AS review_count"

func withCounts(q *gorm.DB) *gorm.DB {
	return q.Select(countsProjection)
}

// Repository persists restaurants.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of active restaurants, newest first, with menu and review counts.
func (r *Repository) List(ctx context.Context, filter Filter, offset, limit int) ([]models.Restaurant, int64, error) {
	var rows []models.Restaurant
	total, err := db.FindPage(ctx, r.db, db.PageQuery{
		Filter:  filter.scope,
		Project: withCounts,
		Order:   "restaurants.created_at DESC",
		Offset:  offset,
		Limit:   limit,
	}, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindActiveDetail loads an active restaurant with its available menu items
// and most recent reviews.
func (r *Repository) FindActiveDetail(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Scopes(withCounts).
		Preload("MenuItems", func(q *gorm.DB) *gorm.DB {
			return q.Where("is_available = ?", true).Order("created_at DESC")
		}).
		Preload("Reviews", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at DESC").Limit(recentReviewLimit)
		}).
		Preload("Reviews.User").
		Where("restaurants.id = ? AND restaurants.is_active = ?", id, true).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindByID loads a restaurant with its counts regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Scopes(withCounts).
		Where("restaurants.id = ?", id).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *Repository) Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error) {
	if err := r.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// UpdateFields applies a partial update. Keys are column names.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Updates(fields).Error
}
