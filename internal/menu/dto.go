package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ItemDTO is the public shape of a menu item.
type ItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	RestaurantID uuid.UUID       `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Image        *string         `json:"image"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	IsAvailable  bool            `json:"isAvailable"`
	IsVegetarian bool            `json:"isVegetarian"`
	IsVegan      bool            `json:"isVegan"`
	IsGlutenFree bool            `json:"isGlutenFree"`
	IsSpicy      bool            `json:"isSpicy"`
	Calories     *int            `json:"calories"`
	Allergens    []string        `json:"allergens"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CreateRequest is the body of POST /api/menu.
type CreateRequest struct {
	RestaurantID string           `json:"restaurantId" validate:"required,uuid"`
	Name         string           `json:"name" validate:"required,min=1,max=100"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Image        *string          `json:"image,omitempty" validate:"omitempty,url"`
	Price        *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Category     string           `json:"category" validate:"required,min=1,max=50"`
	IsAvailable  *bool            `json:"isAvailable,omitempty"`
	IsVegetarian *bool            `json:"isVegetarian,omitempty"`
	IsVegan      *bool            `json:"isVegan,omitempty"`
	IsGlutenFree *bool            `json:"isGlutenFree,omitempty"`
	IsSpicy      *bool            `json:"isSpicy,omitempty"`
	Calories     *int             `json:"calories,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Allergens    []string         `json:"allergens,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// UpdateRequest is the body of PUT /api/menu/{id}. The parent restaurant cannot change.
type UpdateRequest struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Image        *string          `json:"image,omitempty" validate:"omitempty,url"`
	Price        *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category     *string          `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	IsAvailable  *bool            `json:"isAvailable,omitempty"`
	IsVegetarian *bool            `json:"isVegetarian,omitempty"`
	IsVegan      *bool            `json:"isVegan,omitempty"`
	IsGlutenFree *bool            `json:"isGlutenFree,omitempty"`
	IsSpicy      *bool            `json:"isSpicy,omitempty"`
	Calories     *int             `json:"calories,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Allergens    *[]string        `json:"allergens,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// ListQuery is the coerced query of the menu list endpoints.
type ListQuery struct {
	Page         int      `query:"page" validate:"min=1,max=1000000"`
	Limit        int      `query:"limit" validate:"min=1,max=100"`
	RestaurantID *string  `query:"restaurantId" validate:"omitempty,uuid"`
	Search       *string  `query:"search" validate:"omitempty,max=100"`
	Category     *string  `query:"category" validate:"omitempty,max=50"`
	MinPrice     *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice     *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	IsAvailable  *bool    `query:"isAvailable"`
	IsVegetarian *bool    `query:"isVegetarian"`
	IsVegan      *bool    `query:"isVegan"`
	IsGlutenFree *bool    `query:"isGlutenFree"`
	IsSpicy      *bool    `query:"isSpicy"`
}

// Filter converts the validated query into repository terms.
func (q ListQuery) Filter() Filter {
	f := Filter{
		Search:       q.Search,
		Category:     q.Category,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		IsAvailable:  q.IsAvailable,
		IsVegetarian: q.IsVegetarian,
		IsVegan:      q.IsVegan,
		IsGlutenFree: q.IsGlutenFree,
		IsSpicy:      q.IsSpicy,
	}
	if q.RestaurantID != nil {
		if id, err := uuid.Parse(*q.RestaurantID); err == nil {
			f.RestaurantID = &id
		}
	}
	return f
}

func FromModel(m *models.MenuItem) *ItemDTO {
	if m == nil {
		return nil
	}
	allergens := []string(m.Allergens)
	if allergens == nil {
		allergens = []string{}
	}
	return &ItemDTO{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Description:  m.Description,
		Image:        m.Image,
		Price:        m.Price,
		Category:     m.Category,
		IsAvailable:  m.IsAvailable,
		IsVegetarian: m.IsVegetarian,
		IsVegan:      m.IsVegan,
		IsGlutenFree: m.IsGlutenFree,
		IsSpicy:      m.IsSpicy,
		Calories:     m.Calories,
		Allergens:    allergens,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromModels maps a slice, never returning nil.
func FromModels(items []models.MenuItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
