package menu

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"gorm.io/gorm"
)

func itemColumns(q *gorm.DB) *gorm.DB {
	return q.Select("menu_items.*")
}

// Repository persists menu items and reads their parent restaurants.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of visible menu items, newest first.
func (r *Repository) List(ctx context.Context, filter Filter, offset, limit int) ([]models.MenuItem, int64, error) {
	var rows []models.MenuItem
	total, err := db.FindPage(ctx, r.db, db.PageQuery{
		Filter:  filter.scope,
		Project: itemColumns,
		Order:   "menu_items.created_at DESC",
		Offset:  offset,
		Limit:   limit,
	}, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindVisible loads an item only when its restaurant is active.
func (r *Repository) FindVisible(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Scopes(Filter{}.scope, itemColumns).
		Where("menu_items.id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByID loads an item regardless of its restaurant's state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindRestaurant loads the parent restaurant used for visibility and ownership checks.
func (r *Repository) FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *Repository) Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateFields applies a partial update. Keys are column names.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes the row permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id).Error
}
