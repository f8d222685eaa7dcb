package restaurants

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/internal/menu"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Counts mirrors the related-row totals attached to list and detail reads.
type Counts struct {
	Menus   int64 `json:"menus"`
	Reviews int64 `json:"reviews"`
}

// RestaurantDTO is the list shape of a restaurant.
type RestaurantDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Image         *string         `json:"image"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	ZipCode       string          `json:"zipCode"`
	Country       string          `json:"country"`
	Latitude      *float64        `json:"latitude"`
	Longitude     *float64        `json:"longitude"`
	IsActive      bool            `json:"isActive"`
	Rating        float64         `json:"rating"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	MinOrder      decimal.Decimal `json:"minOrder"`
	EstimatedTime string          `json:"estimatedTime"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Count         Counts          `json:"_count"`
}

// Reviewer is the public slice of a review author.
type Reviewer struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	User      *Reviewer `json:"user"`
}

// DetailDTO adds available menu items and recent reviews.
type DetailDTO struct {
	RestaurantDTO
	MenuItems []menu.ItemDTO `json:"menuItems"`
	Reviews   []ReviewDTO    `json:"reviews"`
}

// CreateRequest is the body of POST /api/restaurants.
type CreateRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=100"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Image         *string          `json:"image,omitempty" validate:"omitempty,url"`
	Phone         string           `json:"phone" validate:"required,min=10,max=15"`
	Email         string           `json:"email" validate:"required,email"`
	Address       string           `json:"address" validate:"required,min=5,max=200"`
	City          string           `json:"city" validate:"required,min=1,max=50"`
	State         string           `json:"state" validate:"required,min=2,max=50"`
	ZipCode       string           `json:"zipCode" validate:"required,min=5,max=10"`
	Country       *string          `json:"country,omitempty" validate:"omitempty,max=50"`
	Latitude      *float64         `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64         `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	DeliveryFee   *decimal.Decimal `json:"deliveryFee,omitempty" validate:"omitempty,gte=0,lte=50"`
	MinOrder      *decimal.Decimal `json:"minOrder,omitempty" validate:"omitempty,gte=0,lte=1000"`
	EstimatedTime *string          `json:"estimatedTime,omitempty" validate:"omitempty,max=50"`
}

// UpdateRequest is the body of PUT /api/restaurants/{id}. Absent fields are left untouched.
type UpdateRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Image         *string          `json:"image,omitempty" validate:"omitempty,url"`
	Phone         *string          `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Email         *string          `json:"email,omitempty" validate:"omitempty,email"`
	Address       *string          `json:"address,omitempty" validate:"omitempty,min=5,max=200"`
	City          *string          `json:"city,omitempty" validate:"omitempty,min=1,max=50"`
	State         *string          `json:"state,omitempty" validate:"omitempty,min=2,max=50"`
	ZipCode       *string          `json:"zipCode,omitempty" validate:"omitempty,min=5,max=10"`
	Country       *string          `json:"country,omitempty" validate:"omitempty,max=50"`
	Latitude      *float64         `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64         `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	DeliveryFee   *decimal.Decimal `json:"deliveryFee,omitempty" validate:"omitempty,gte=0,lte=50"`
	MinOrder      *decimal.Decimal `json:"minOrder,omitempty" validate:"omitempty,gte=0,lte=1000"`
	EstimatedTime *string          `json:"estimatedTime,omitempty" validate:"omitempty,max=50"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

// ListQuery is the coerced query of GET /api/restaurants.
type ListQuery struct {
	Page      int      `query:"page" validate:"min=1,max=1000000"`
	Limit     int      `query:"limit" validate:"min=1,max=100"`
	Search    *string  `query:"search" validate:"omitempty,max=100"`
	City      *string  `query:"city" validate:"omitempty,max=50"`
	MinRating *float64 `query:"minRating" validate:"omitempty,gte=0,lte=5"`
	Mine      *bool    `query:"mine"`
}

func FromModel(r *models.Restaurant) *RestaurantDTO {
	if r == nil {
		return nil
	}
	return &RestaurantDTO{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Image:         r.Image,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		City:          r.City,
		State:         r.State,
		ZipCode:       r.ZipCode,
		Country:       r.Country,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		IsActive:      r.IsActive,
		Rating:        r.Rating,
		DeliveryFee:   r.DeliveryFee,
		MinOrder:      r.MinOrder,
		EstimatedTime: r.EstimatedTime,
		OwnerID:       r.OwnerID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Count:         Counts{Menus: r.MenuCount, Reviews: r.ReviewCount},
	}
}

// DetailFromModel expects MenuItems, Reviews and Reviews.User to be preloaded.
func DetailFromModel(r *models.Restaurant) *DetailDTO {
	if r == nil {
		return nil
	}
	reviews := make([]ReviewDTO, 0, len(r.Reviews))
	for _, rv := range r.Reviews {
		dto := ReviewDTO{ID: rv.ID, Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt}
		if rv.User != nil {
			dto.User = &Reviewer{ID: rv.User.ID, FirstName: rv.User.FirstName, LastName: rv.User.LastName}
		}
		reviews = append(reviews, dto)
	}
	return &DetailDTO{
		RestaurantDTO: *FromModel(r),
		MenuItems:     menu.FromModels(r.MenuItems),
		Reviews:       reviews,
	}
}
