package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/dbtest"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/orderup/orderup-backend/pkg/enums"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var firstPage = pagination.Params{Page: 1, Limit: 10}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), nil)
	require.NoError(t, err)
	return svc, client
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code(), "unexpected error %v", err)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

type fixture struct {
	client     *db.Client
	owner      *models.User
	restaurant *models.Restaurant
}

func seedFixture(t *testing.T, client *db.Client) fixture {
	t.Helper()
	owner := dbtest.SeedUser(t, client, "chef@orderup.test", enums.UserRoleRestaurantOwner)
	return fixture{
		client:     client,
		owner:      owner,
		restaurant: dbtest.SeedRestaurant(t, client, owner.ID, "Chef's Table", "Chicago"),
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil, nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)

	price := decimal.RequireFromString("12.50")
	created, err := svc.Create(context.Background(), CreateRequest{
		RestaurantID: fx.restaurant.ID.String(),
		Name:         " Ramen ",
		Price:        &price,
		Category:     "Noodles",
	}, fx.owner.ID, enums.UserRoleRestaurantOwner)
	require.NoError(t, err)
	assert.Equal(t, "Ramen", created.Name)
	assert.True(t, created.IsAvailable)
	assert.False(t, created.IsVegan)
	assert.False(t, created.IsSpicy)
	assert.NotNil(t, created.Allergens)
	assert.Empty(t, created.Allergens)

	loaded, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(loaded.Price), "price %s", loaded.Price)
	assert.Equal(t, fx.restaurant.ID, loaded.RestaurantID)
	assert.Equal(t, []string{}, loaded.Allergens)
}

func TestCreateKeepsAllergensAndFlags(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)

	price := decimal.NewFromInt(9)
	calories := 640
	created, err := svc.Create(context.Background(), CreateRequest{
		RestaurantID: fx.restaurant.ID.String(),
		Name:         "Satay",
		Price:        &price,
		Category:     "Starters",
		IsSpicy:      boolPtr(true),
		IsAvailable:  boolPtr(false),
		Calories:     &calories,
		Allergens:    []string{"peanuts", " soy "},
	}, fx.owner.ID, enums.UserRoleRestaurantOwner)
	require.NoError(t, err)

	var stored models.MenuItem
	require.NoError(t, client.DB().First(&stored, "id = ?", created.ID).Error)
	assert.True(t, stored.IsSpicy)
	assert.False(t, stored.IsAvailable)
	require.NotNil(t, stored.Calories)
	assert.Equal(t, 640, *stored.Calories)
	assert.Equal(t, []string{"peanuts", "soy"}, []string(stored.Allergens))
}

func TestCreateRequiresActiveOwnedRestaurant(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)
	stranger := dbtest.SeedUser(t, client, "stranger@orderup.test", enums.UserRoleRestaurantOwner)
	price := decimal.NewFromInt(5)

	req := CreateRequest{RestaurantID: fx.restaurant.ID.String(), Name: "Soup", Price: &price, Category: "Soups"}

	_, err := svc.Create(context.Background(), req, stranger.ID, enums.UserRoleRestaurantOwner)
	requireCode(t, err, pkgerrors.CodeForbidden)
	assert.Equal(t, "Access denied", pkgerrors.As(err).Message())

	admin := dbtest.SeedUser(t, client, "admin@orderup.test", enums.UserRoleAdmin)
	_, err = svc.Create(context.Background(), req, admin.ID, enums.UserRoleAdmin)
	require.NoError(t, err)

	missing := req
	missing.RestaurantID = uuid.NewString()
	_, err = svc.Create(context.Background(), missing, fx.owner.ID, enums.UserRoleRestaurantOwner)
	requireCode(t, err, pkgerrors.CodeNotFound)
	assert.Equal(t, "Restaurant not found", pkgerrors.As(err).Message())

	require.NoError(t, client.DB().Model(fx.restaurant).Update("is_active", false).Error)
	_, err = svc.Create(context.Background(), req, fx.owner.ID, enums.UserRoleRestaurantOwner)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListFilters(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)

	salad := dbtest.SeedMenuItem(t, client, fx.restaurant.ID, "Garden Salad", "Salads", 8)
	require.NoError(t, client.DB().Model(salad).Updates(map[string]any{"is_vegan": true, "is_vegetarian": true}).Error)
	curry := dbtest.SeedMenuItem(t, client, fx.restaurant.ID, "Red Curry", "Mains", 15)
	require.NoError(t, client.DB().Model(curry).Updates(map[string]any{"is_spicy": true, "is_available": false}).Error)
	dbtest.SeedMenuItem(t, client, fx.restaurant.ID, "Steak", "Mains", 32)

	ctx := context.Background()

	all, meta, err := svc.List(ctx, Filter{}, firstPage)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), meta.Total)

	vegan, _, err := svc.List(ctx, Filter{IsVegan: boolPtr(true)}, firstPage)
	require.NoError(t, err)
	require.Len(t, vegan, 1)
	assert.Equal(t, salad.ID, vegan[0].ID)

	available, _, err := svc.List(ctx, Filter{IsAvailable: boolPtr(true)}, firstPage)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	mains, _, err := svc.List(ctx, Filter{Category: strPtr("MAIN")}, firstPage)
	require.NoError(t, err)
	assert.Len(t, mains, 2)

	searched, _, err := svc.List(ctx, Filter{Search: strPtr("salad")}, firstPage)
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Garden Salad", searched[0].Name)

	minPrice, maxPrice := 10.0, 20.0
	priced, _, err := svc.List(ctx, Filter{MinPrice: &minPrice, MaxPrice: &maxPrice}, firstPage)
	require.NoError(t, err)
	require.Len(t, priced, 1)
	assert.Equal(t, curry.ID, priced[0].ID)
}

func TestListHidesItemsOfInactiveRestaurants(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)
	closed := dbtest.SeedRestaurant(t, client, fx.owner.ID, "Closed", "Chicago")

	dbtest.SeedMenuItem(t, client, fx.restaurant.ID, "Visible", "Mains", 10)
	hidden := dbtest.SeedMenuItem(t, client, closed.ID, "Hidden", "Mains", 10)
	require.NoError(t, client.DB().Model(closed).Update("is_active", false).Error)

	rows, meta, err := svc.List(context.Background(), Filter{}, firstPage)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), meta.Total)
	assert.Equal(t, "Visible", rows[0].Name)

	_, err = svc.GetByID(context.Background(), hidden.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
	assert.Equal(t, "Menu item not found", pkgerrors.As(err).Message())

	_, _, err = svc.ListByRestaurant(context.Background(), closed.ID, Filter{}, firstPage)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListByRestaurantScopesAndPaginates(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)
	other := dbtest.SeedRestaurant(t, client, fx.owner.ID, "Other", "Chicago")

	for i := 0; i < 7; i++ {
		dbtest.SeedMenuItem(t, client, fx.restaurant.ID, "Dish", "Mains", float64(i+1))
	}
	dbtest.SeedMenuItem(t, client, other.ID, "Elsewhere", "Mains", 3)

	rows, meta, err := svc.ListByRestaurant(context.Background(), fx.restaurant.ID, Filter{}, pagination.Params{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(7), meta.Total)
	assert.Equal(t, 2, meta.Pages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
	for _, r := range rows {
		assert.Equal(t, fx.restaurant.ID, r.RestaurantID)
	}

	_, _, err = svc.ListByRestaurant(context.Background(), uuid.New(), Filter{}, firstPage)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateIsPartialAndOwnerOnly(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)
	item := dbtest.SeedMenuItem(t, client, fx.restaurant.ID, "Tea", "Drinks", 2)

	_, err := svc.Update(context.Background(), item.ID, UpdateRequest{Name: strPtr("Coffee")}, uuid.New(), enums.UserRoleRestaurantOwner)
	requireCode(t, err, pkgerrors.CodeForbidden)

	price := decimal.RequireFromString("3.75")
	allergens := []string{"caffeine"}
	updated, err := svc.Update(context.Background(), item.ID, UpdateRequest{
		Price:     &price,
		IsVegan:   boolPtr(true),
		Allergens: &allergens,
	}, fx.owner.ID, enums.UserRoleRestaurantOwner)
	require.NoError(t, err)
	assert.Equal(t, "Tea", updated.Name)
	assert.True(t, price.Equal(updated.Price))
	assert.True(t, updated.IsVegan)
	assert.Equal(t, []string{"caffeine"}, updated.Allergens)

	_, err = svc.Update(context.Background(), uuid.New(), UpdateRequest{}, fx.owner.ID, enums.UserRoleAdmin)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteIsHard(t *testing.T) {
	svc, client := newTestService(t)
	fx := seedFixture(t, client)
	item := dbtest.SeedMenuItem(t, client, fx.restaurant.ID, "Gone", "Mains", 4)

	err := svc.Delete(context.Background(), item.ID, uuid.New(), enums.UserRoleCustomer)
	requireCode(t, err, pkgerrors.CodeForbidden)

	require.NoError(t, svc.Delete(context.Background(), item.ID, fx.owner.ID, enums.UserRoleRestaurantOwner))

	var count int64
	require.NoError(t, client.DB().Model(&models.MenuItem{}).Where("id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)

	err = svc.Delete(context.Background(), item.ID, fx.owner.ID, enums.UserRoleRestaurantOwner)
	requireCode(t, err, pkgerrors.CodeNotFound)
}
