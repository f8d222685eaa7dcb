package restaurants

import (
	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"gorm.io/gorm"
)

// Filter narrows the public restaurant list. Inactive restaurants are always excluded.
type Filter struct {
	Search    *string
	City      *string
	MinRating *float64
	OwnerID   *uuid.UUID
}

func (f Filter) scope(q *gorm.DB) *gorm.DB {
	q = q.Where("restaurants.is_active = ?", true)
	if f.Search != nil {
		pattern := db.ContainsPattern(*f.Search)
		q = q.Where(
			"("+db.ILike("restaurants.name")+" OR "+db.ILike("restaurants.description")+" OR "+db.ILike("restaurants.city")+")",
			pattern, pattern, pattern,
		)
	}
	if f.City != nil {
		q = q.Where(db.ILike("restaurants.city"), db.ContainsPattern(*f.City))
	}
	if f.MinRating != nil {
		q = q.Where("restaurants.rating >= ?", *f.MinRating)
	}
	if f.OwnerID != nil {
		q = q.Where("restaurants.owner_id = ?", *f.OwnerID)
	}
	return q
}
