package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Restaurant is soft-deleted by flipping IsActive; inactive rows stay in the table
// but are hidden from every public read.
type Restaurant struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Description   *string         `gorm:"column:description"`
	Image         *string         `gorm:"column:image"`
	Phone         string          `gorm:"column:phone;not null"`
	Email         string          `gorm:"column:email;not null"`
	Address       string          `gorm:"column:address;not null"`
	City          string          `gorm:"column:city;not null"`
	State         string          `gorm:"column:state;not null"`
	ZipCode       string          `gorm:"column:zip_code;not null"`
	Country       string          `gorm:"column:country;not null"`
	Latitude      *float64        `gorm:"column:latitude"`
	Longitude     *float64        `gorm:"column:longitude"`
	IsActive      bool            `gorm:"column:is_active;not null;index"`
	Rating        float64         `gorm:"column:rating;type:double precision;not null"`
	DeliveryFee   decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	MinOrder      decimal.Decimal `gorm:"column:min_order;type:numeric(10,2);not null"`
	EstimatedTime string          `gorm:"column:estimated_time;not null"`
	OwnerID       uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	// Populated by list/detail projections only.
	MenuCount   int64 `gorm:"->;-:migration;column:menu_count"`
	ReviewCount int64 `gorm:"->;-:migration;column:review_count"`

	Owner     *User      `gorm:"foreignKey:OwnerID"`
	MenuItems []MenuItem `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Reviews   []Review   `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
