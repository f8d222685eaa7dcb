package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/internal/menu"
	"github.com/orderup/orderup-backend/internal/restaurants"
	"github.com/orderup/orderup-backend/internal/users"
	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/enums"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersListCoercesQuery(t *testing.T) {
	svc := &stubUserService{list: []users.UserDTO{{ID: uuid.New()}}}
	req := httptest.NewRequest(http.MethodGet, "/api/users?page=2&limit=5&role=ADMIN&isActive=false&search=ada", nil)
	resp := httptest.NewRecorder()

	UsersList(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, svc.gotParams.Page)
	assert.Equal(t, 5, svc.gotParams.Limit)
	require.NotNil(t, svc.gotFilter.Role)
	assert.Equal(t, enums.UserRoleAdmin, *svc.gotFilter.Role)
	require.NotNil(t, svc.gotFilter.IsActive)
	assert.False(t, *svc.gotFilter.IsActive)
	env := decodeEnvelope(t, resp)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
}

func TestUsersListRejectsBadQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/users?limit=abc&role=KING&page=0", nil)
	resp := httptest.NewRecorder()

	UsersList(&stubUserService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.ElementsMatch(t, []string{"query.limit", "query.role", "query.page"}, fieldNames(decodeEnvelope(t, resp).Errors))
}

func TestUsersGetRejectsBadID(t *testing.T) {
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/users/nope", nil), map[string]string{"userId": "nope"})
	resp := httptest.NewRecorder()

	UsersGet(&stubUserService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope(t, resp)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "params.userId", env.Errors[0].Field)
	assert.Equal(t, "userId must be a valid UUID", env.Errors[0].Message)
}

func TestUsersDeactivate(t *testing.T) {
	id := uuid.New()
	svc := &stubUserService{}
	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/users/"+id.String(), nil), map[string]string{"userId": id.String()})
	resp := httptest.NewRecorder()

	UsersDeactivate(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, id, svc.gotID)
	assert.Equal(t, "Account deactivated successfully", decodeEnvelope(t, resp).Message)
}

func TestRestaurantsListDefaultsAndFilters(t *testing.T) {
	svc := &stubRestaurantService{list: []restaurants.RestaurantDTO{}}
	req := httptest.NewRequest(http.MethodGet, "/api/restaurants?city=austin&minRating=4.5", nil)
	resp := httptest.NewRecorder()

	RestaurantsList(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, svc.gotParams.Page)
	assert.Equal(t, 10, svc.gotParams.Limit)
	require.NotNil(t, svc.gotFilter.City)
	assert.Equal(t, "austin", *svc.gotFilter.City)
	require.NotNil(t, svc.gotFilter.MinRating)
	assert.InDelta(t, 4.5, *svc.gotFilter.MinRating, 0.0001)
	assert.Nil(t, svc.gotFilter.OwnerID)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Restaurants fetched successfully", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRestaurantsListMine(t *testing.T) {
	svc := &stubRestaurantService{}

	anon := httptest.NewRecorder()
	RestaurantsList(svc, nil).ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/api/restaurants?mine=true", nil))
	require.Equal(t, http.StatusUnauthorized, anon.Code)

	owner := uuid.New()
	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/restaurants?mine=true", nil), owner, enums.UserRoleRestaurantOwner)
	resp := httptest.NewRecorder()
	RestaurantsList(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.gotFilter.OwnerID)
	assert.Equal(t, owner, *svc.gotFilter.OwnerID)
}

func TestRestaurantsListRejectsRatingOutOfRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/restaurants?minRating=7&mine=maybe", nil)
	resp := httptest.NewRecorder()

	RestaurantsList(&stubRestaurantService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.ElementsMatch(t, []string{"query.minRating", "query.mine"}, fieldNames(decodeEnvelope(t, resp).Errors))
}

func TestRestaurantsCreateUsesCaller(t *testing.T) {
	owner := uuid.New()
	svc := &stubRestaurantService{one: &restaurants.RestaurantDTO{ID: uuid.New(), OwnerID: owner}}
	body := `{"name":"Taco Town","phone":"5551234567","email":"t@orderup.test","address":"42 Market St","city":"SF","state":"CA","zipCode":"94105","deliveryFee":2.5}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/restaurants", strings.NewReader(body)), owner, enums.UserRoleRestaurantOwner)
	resp := httptest.NewRecorder()

	RestaurantsCreate(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, owner, svc.gotCaller)
	assert.Equal(t, "Restaurant created successfully", decodeEnvelope(t, resp).Message)
}

func TestRestaurantsCreateValidatesBounds(t *testing.T) {
	body := `{"name":"Taco Town","phone":"5551234567","email":"t@orderup.test","address":"42 Market St","city":"SF","state":"CA","zipCode":"94105","deliveryFee":80,"latitude":120}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/restaurants", strings.NewReader(body)), uuid.New(), enums.UserRoleRestaurantOwner)
	resp := httptest.NewRecorder()

	RestaurantsCreate(&stubRestaurantService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.ElementsMatch(t, []string{"body.deliveryFee", "body.latitude"}, fieldNames(decodeEnvelope(t, resp).Errors))
}

func TestRestaurantsUpdateCollectsParamAndBodyErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/restaurants/bad", strings.NewReader(`{"name":""}`))
	req = withURLParams(withIdentity(req, uuid.New(), enums.UserRoleRestaurantOwner), map[string]string{"id": "bad"})
	resp := httptest.NewRecorder()

	RestaurantsUpdate(&stubRestaurantService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.ElementsMatch(t, []string{"params.id", "body.name"}, fieldNames(decodeEnvelope(t, resp).Errors))
}

func TestRestaurantsDeleteForbidden(t *testing.T) {
	id := uuid.New()
	caller := uuid.New()
	svc := &stubRestaurantService{err: pkgerrors.New(pkgerrors.CodeForbidden, "Access denied")}
	req := withURLParams(withIdentity(httptest.NewRequest(http.MethodDelete, "/api/restaurants/"+id.String(), nil), caller, enums.UserRoleRestaurantOwner), map[string]string{"id": id.String()})
	resp := httptest.NewRecorder()

	RestaurantsDelete(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, id, svc.gotID)
	assert.Equal(t, caller, svc.gotCaller)
	assert.Equal(t, enums.UserRoleRestaurantOwner, svc.gotRole)
	assert.Equal(t, "Access denied", decodeEnvelope(t, resp).Message)
}

func TestRestaurantsGetNotFound(t *testing.T) {
	id := uuid.New()
	svc := &stubRestaurantService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Restaurant not found")}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/restaurants/"+id.String(), nil), map[string]string{"id": id.String()})
	resp := httptest.NewRecorder()

	RestaurantsGet(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Restaurant not found", env.Message)
	assert.Equal(t, string(pkgerrors.CodeNotFound), env.Error)
}

func TestMenuListParsesFlags(t *testing.T) {
	restaurantID := uuid.New()
	svc := &stubMenuService{items: []menu.ItemDTO{}}
	req := httptest.NewRequest(http.MethodGet, "/api/menu?restaurantId="+restaurantID.String()+"&isVegan=true&maxPrice=12.5&limit=20", nil)
	resp := httptest.NewRecorder()

	MenuList(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.gotFilter.RestaurantID)
	assert.Equal(t, restaurantID, *svc.gotFilter.RestaurantID)
	require.NotNil(t, svc.gotFilter.IsVegan)
	assert.True(t, *svc.gotFilter.IsVegan)
	assert.Nil(t, svc.gotFilter.IsSpicy)
	require.NotNil(t, svc.gotFilter.MaxPrice)
	assert.InDelta(t, 12.5, *svc.gotFilter.MaxPrice, 0.0001)
	assert.Equal(t, 20, svc.gotParams.Limit)
}

func TestMenuListRejectsBadQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/menu?restaurantId=x&minPrice=-1&limit=500", nil)
	resp := httptest.NewRecorder()

	MenuList(&stubMenuService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.ElementsMatch(t, []string{"query.restaurantId", "query.minPrice", "query.limit"}, fieldNames(decodeEnvelope(t, resp).Errors))
}

func TestMenuByRestaurantReadsNamedParam(t *testing.T) {
	restaurantID := uuid.New()
	svc := &stubMenuService{}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/restaurants/"+restaurantID.String()+"/menu", nil), map[string]string{"id": restaurantID.String()})
	resp := httptest.NewRecorder()

	MenuByRestaurant(svc, "id", nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, restaurantID, svc.gotRestaurant)
	assert.Equal(t, "Menu items fetched successfully", decodeEnvelope(t, resp).Message)
}

func TestMenuCreateValidatesBody(t *testing.T) {
	body := `{"restaurantId":"not-a-uuid","name":"Soup","price":-2,"category":"Soups","allergens":["nuts",""]}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/menu", strings.NewReader(body)), uuid.New(), enums.UserRoleRestaurantOwner)
	resp := httptest.NewRecorder()

	MenuCreate(&stubMenuService{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.ElementsMatch(t, []string{"body.restaurantId", "body.price", "body.allergens[1]"}, fieldNames(decodeEnvelope(t, resp).Errors))
}

func TestMenuCreatePassesCaller(t *testing.T) {
	caller := uuid.New()
	svc := &stubMenuService{item: &menu.ItemDTO{ID: uuid.New(), Allergens: []string{}}}
	body := `{"restaurantId":"` + uuid.NewString() + `","name":"Soup","price":4.5,"category":"Soups"}`
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/menu", strings.NewReader(body)), caller, enums.UserRoleAdmin)
	resp := httptest.NewRecorder()

	MenuCreate(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, caller, svc.gotCaller)
	assert.Equal(t, enums.UserRoleAdmin, svc.gotRole)
}

func TestMenuDeleteInternalErrorHidesCause(t *testing.T) {
	id := uuid.New()
	svc := &stubMenuService{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("disk on fire"), "delete menu item")}
	req := withURLParams(withIdentity(httptest.NewRequest(http.MethodDelete, "/api/menu/"+id.String(), nil), uuid.New(), enums.UserRoleAdmin), map[string]string{"id": id.String()})
	resp := httptest.NewRecorder()

	MenuDelete(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "disk on fire")
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(config.AppConfig{Env: "test", Version: "1.0.0"}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "OrderUP API is running", body["message"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthReady(t *testing.T) {
	cases := []struct {
		name   string
		db     Pinger
		cache  Pinger
		status int
		checks map[string]string
	}{
		{"db only", stubPinger{}, nil, http.StatusOK, map[string]string{"database": "ok", "redis": "disabled"}},
		{"db and redis", stubPinger{}, stubPinger{}, http.StatusOK, map[string]string{"database": "ok", "redis": "ok"}},
		{"db down", stubPinger{err: errors.New("refused")}, nil, http.StatusServiceUnavailable, map[string]string{"database": "unreachable", "redis": "disabled"}},
		{"redis down", stubPinger{}, stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable, map[string]string{"database": "ok", "redis": "unreachable"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			HealthReady(tc.db, tc.cache, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			require.Equal(t, tc.status, resp.Code)
			var body readinessResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.status == http.StatusOK, body.Success)
			assert.Equal(t, tc.checks, body.Checks)
		})
	}
}

func TestNotFoundEchoesPath(t *testing.T) {
	resp := httptest.NewRecorder()
	NotFound().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/nowhere?x=1", nil))

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found","path":"/api/nowhere?x=1"}`, resp.Body.String())
}
