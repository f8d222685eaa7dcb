package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is read-only from the API's point of view.
type Review struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index:idx_reviews_restaurant_created,priority:1"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	Rating       int       `gorm:"column:rating;not null"`
	Comment      *string   `gorm:"column:comment"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index:idx_reviews_restaurant_created,priority:2"`

	User *User `gorm:"foreignKey:UserID"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
