package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	dbtypes "github.com/orderup/orderup-backend/pkg/db/types"
	"github.com/orderup/orderup-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// SeedUser inserts an active user with the given role.
func SeedUser(t testing.TB, client *db.Client, email string, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	if err := client.DB().Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedRestaurant inserts an active restaurant owned by ownerID.
func SeedRestaurant(t testing.TB, client *db.Client, ownerID uuid.UUID, name, city string) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		Name:          name,
		Phone:         "5551234567",
		Email:         "contact@example.com",
		Address:       "1 Main Street",
		City:          city,
		State:         "CA",
		ZipCode:       "94105",
		Country:       "US",
		IsActive:      true,
		DeliveryFee:   decimal.Zero,
		MinOrder:      decimal.Zero,
		EstimatedTime: "30-45 min",
		OwnerID:       ownerID,
	}
	if err := client.DB().Create(restaurant).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return restaurant
}

// SeedMenuItem inserts an available menu item priced at price.
func SeedMenuItem(t testing.TB, client *db.Client, restaurantID uuid.UUID, name, category string, price float64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.NewFromFloat(price),
		Category:     category,
		IsAvailable:  true,
		Allergens:    dbtypes.StringList{},
	}
	if err := client.DB().Create(item).Error; err != nil {
		t.Fatalf("seed menu item: %v", err)
	}
	return item
}
