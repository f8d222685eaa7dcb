package menu

import (
	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"gorm.io/gorm"
)

// Filter narrows menu listings. Items of inactive restaurants never match.
type Filter struct {
	RestaurantID *uuid.UUID
	Search       *string
	Category     *string
	MinPrice     *float64
	MaxPrice     *float64
	IsAvailable  *bool
	IsVegetarian *bool
	IsVegan      *bool
	IsGlutenFree *bool
	IsSpicy      *bool
}

func (f Filter) scope(q *gorm.DB) *gorm.DB {
	q = q.Joins("JOIN restaurants ON restaurants.id = menu_items.restaurant_id").
		Where("restaurants.is_active = ?", true)

	if f.RestaurantID != nil {
		q = q.Where("menu_items.restaurant_id = ?", *f.RestaurantID)
	}
	if f.Search != nil {
		pattern := db.ContainsPattern(*f.Search)
		q = q.Where(
			"("+db.ILike("menu_items.name")+" OR "+db.ILike("menu_items.description")+" OR "+db.ILike("menu_items.category")+")",
			pattern, pattern, pattern,
		)
	}
	if f.Category != nil {
		q = q.Where(db.ILike("menu_items.category"), db.ContainsPattern(*f.Category))
	}
	if f.MinPrice != nil {
		q = q.Where("menu_items.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("menu_items.price <= ?", *f.MaxPrice)
	}

	flags := []struct {
		column string
		value  *bool
	}{
		{"menu_items.is_available", f.IsAvailable},
		{"menu_items.is_vegetarian", f.IsVegetarian},
		{"menu_items.is_vegan", f.IsVegan},
		{"menu_items.is_gluten_free", f.IsGlutenFree},
		{"menu_items.is_spicy", f.IsSpicy},
	}
	for _, flag := range flags {
		if flag.value != nil {
			q = q.Where(flag.column+" = ?", *flag.value)
		}
	}
	return q
}
