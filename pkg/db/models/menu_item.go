package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/orderup/orderup-backend/pkg/db/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem belongs to a restaurant and is hard-deleted.
type MenuItem struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string             `gorm:"column:name;not null"`
	Description  *string            `gorm:"column:description"`
	Image        *string            `gorm:"column:image"`
	Price        decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null"`
	Category     string             `gorm:"column:category;not null;index"`
	IsAvailable  bool               `gorm:"column:is_available;not null"`
	IsVegetarian bool               `gorm:"column:is_vegetarian;not null"`
	IsVegan      bool               `gorm:"column:is_vegan;not null"`
	IsGlutenFree bool               `gorm:"column:is_gluten_free;not null"`
	IsSpicy      bool               `gorm:"column:is_spicy;not null"`
	Calories     *int               `gorm:"column:calories"`
	Allergens    dbtypes.StringList `gorm:"column:allergens;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
