package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderup/orderup-backend/internal/auth"
	"github.com/orderup/orderup-backend/internal/menu"
	"github.com/orderup/orderup-backend/internal/restaurants"
	"github.com/orderup/orderup-backend/internal/users"
	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/dbtest"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/orderup/orderup-backend/pkg/enums"
	"github.com/orderup/orderup-backend/pkg/metrics"
	"github.com/orderup/orderup-backend/pkg/redis"
	"github.com/orderup/orderup-backend/pkg/types"
)

type fakeCache struct {
	mu      sync.Mutex
	counts  map[string]int64
	pingErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: map[string]int64{}}
}

func (c *fakeCache) incr(scope string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[scope]++
	return c.counts[scope]
}

func (c *fakeCache) FixedWindow(_ context.Context, scope string, limit int64, window time.Duration) (redis.WindowResult, error) {
	count := c.incr(scope)
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return redis.WindowResult{Allowed: count <= limit, Count: count, Limit: limit, Remaining: remaining, ResetIn: window}, nil
}

func (c *fakeCache) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	count := c.incr(scope)
	return count <= limit, count, nil
}

func (c *fakeCache) Ping(context.Context) error {
	return c.pingErr
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	db      *db.Client
	cache   *fakeCache
}

type envelope struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Data       json.RawMessage       `json:"data"`
	Error      string                `json:"error"`
	Errors     []types.FieldError    `json:"errors"`
	Pagination *types.PaginationMeta `json:"pagination"`
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvTest, Version: "1.0.0"},
		HTTP: config.HTTPConfig{
			CORSOrigins:  []string{"http://localhost:3000"},
			MaxBodyBytes: 1 << 20,
		},
		JWT: config.JWTConfig{
			AccessSecret:  strings.Repeat("a", 32),
			RefreshSecret: strings.Repeat("r", 32),
			Issuer:        "orderup",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    time.Hour,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		RateLimit: config.RateLimitConfig{Window: time.Minute, MaxRequests: 1000},
	}
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	client := dbtest.Open(t)
	userRepo := users.NewRepository(client.DB())

	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		DB:        client,
		JWTConfig: cfg.JWT,
		Password:  cfg.Password,
	})
	require.NoError(t, err)
	userSvc, err := users.NewService(userRepo, cfg.Password, nil)
	require.NoError(t, err)
	restaurantSvc, err := restaurants.NewService(restaurants.NewRepository(client.DB()), nil)
	require.NoError(t, err)
	menuSvc, err := menu.NewService(menu.NewRepository(client.DB()), nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cache := newFakeCache()
	handler := NewRouter(Dependencies{
		Config:      cfg,
		DB:          client,
		Cache:       cache,
		Metrics:     metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
		UserLookup:  userRepo,
		Auth:        authSvc,
		Users:       userSvc,
		Restaurants: restaurantSvc,
		Menu:        menuSvc,
	})
	return &testServer{t: t, handler: handler, db: client, cache: cache}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.7:4242"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

func (s *testServer) register(email string) (uuid.UUID, string) {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":     email,
		"password":  "correct-horse",
		"firstName": "Test",
		"lastName":  "Person",
	})
	require.Equal(s.t, http.StatusCreated, resp.Code, resp.Body.String())
	var data struct {
		User        struct{ ID uuid.UUID } `json:"user"`
		AccessToken string                 `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(decode(s.t, resp).Data, &data))
	return data.User.ID, data.AccessToken
}

func (s *testServer) setRole(id uuid.UUID, role enums.UserRole) {
	s.t.Helper()
	require.NoError(s.t, s.db.DB().Model(&models.User{}).Where("id = ?", id).Update("role", role).Error)
}

func restaurantBody(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"phone":       "5551234567",
		"email":       "kitchen@orderup.test",
		"address":     "42 Market Street",
		"city":        "San Francisco",
		"state":       "CA",
		"zipCode":     "94105",
		"deliveryFee": 3.5,
	}
}

func idFrom(t *testing.T, resp *httptest.ResponseRecorder) uuid.UUID {
	t.Helper()
	var data struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &data))
	return data.ID
}

func TestHealthWelcomeAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)

	health := srv.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), "OrderUP API is running")
	assert.Equal(t, "nosniff", health.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, health.Header().Get("X-Request-Id"))

	ready := srv.do(http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), `"redis":"ok"`)

	srv.cache.pingErr = fmt.Errorf("connection refused")
	notReady := srv.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, notReady.Code)

	welcome := srv.do(http.MethodGet, "/api", "", nil)
	require.Equal(t, http.StatusOK, welcome.Code)
	assert.JSONEq(t, `{"success":true,"message":"Welcome to OrderUP API","version":"1.0.0","documentation":"/api-docs"}`, welcome.Body.String())

	scrape := srv.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv := newTestServer(t, nil)

	missing := srv.do(http.MethodGet, "/api/nowhere", "", nil)
	require.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found","path":"/api/nowhere"}`, missing.Body.String())

	wrongMethod := srv.do(http.MethodPatch, "/api/menu", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, wrongMethod.Code)
	assert.Contains(t, wrongMethod.Body.String(), "Method not allowed")
}

func TestAuthLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	_, token := srv.register("Diner@OrderUP.test")

	dup := srv.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "diner@orderup.test", "password": "correct-horse", "firstName": "A", "lastName": "B",
	})
	require.Equal(t, http.StatusBadRequest, dup.Code)
	env := decode(t, dup)
	assert.Equal(t, "ALREADY_EXISTS", env.Error)
	assert.Equal(t, "User already exists with this email", env.Message)

	badLogin := srv.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "diner@orderup.test", "password": "wrong-horse"})
	require.Equal(t, http.StatusUnauthorized, badLogin.Code)
	assert.Equal(t, "Invalid credentials", decode(t, badLogin).Message)

	login := srv.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "diner@orderup.test", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, login.Code)
	var tokens struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(decode(t, login).Data, &tokens))

	refresh := srv.do(http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, refresh.Code)

	profile := srv.do(http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), `"email":"diner@orderup.test"`)
	assert.NotContains(t, profile.Body.String(), "password")

	noToken := srv.do(http.MethodGet, "/api/auth/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, noToken.Code)
	assert.Equal(t, "Access token required", decode(t, noToken).Message)

	garbage := srv.do(http.MethodGet, "/api/auth/profile", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, garbage.Code)
	assert.Equal(t, "Invalid token", decode(t, garbage).Message)

	password := srv.do(http.MethodPut, "/api/auth/password", token, map[string]any{"currentPassword": "correct-horse", "newPassword": "battery-staple"})
	require.Equal(t, http.StatusOK, password.Code)

	relogin := srv.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "diner@orderup.test", "password": "battery-staple"})
	require.Equal(t, http.StatusOK, relogin.Code)

	logout := srv.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, logout.Code)
	assert.Equal(t, "Logout successful", decode(t, logout).Message)
}

func TestUserRoutesGuardedByOwnershipAndRole(t *testing.T) {
	srv := newTestServer(t, nil)
	aliceID, alice := srv.register("alice@orderup.test")
	bobID, bob := srv.register("bob@orderup.test")

	own := srv.do(http.MethodGet, "/api/users/"+aliceID.String(), alice, nil)
	require.Equal(t, http.StatusOK, own.Code)

	other := srv.do(http.MethodGet, "/api/users/"+bobID.String(), alice, nil)
	require.Equal(t, http.StatusForbidden, other.Code)
	assert.Equal(t, "Access denied", decode(t, other).Message)

	list := srv.do(http.MethodGet, "/api/users", alice, nil)
	require.Equal(t, http.StatusForbidden, list.Code)
	assert.Equal(t, "Insufficient permissions", decode(t, list).Message)

	srv.setRole(aliceID, enums.UserRoleAdmin)
	adminList := srv.do(http.MethodGet, "/api/users?role=CUSTOMER", alice, nil)
	require.Equal(t, http.StatusOK, adminList.Code)
	env := decode(t, adminList)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)

	deactivate := srv.do(http.MethodDelete, "/api/users/"+bobID.String(), bob, nil)
	require.Equal(t, http.StatusOK, deactivate.Code)
	assert.Equal(t, "Account deactivated successfully", decode(t, deactivate).Message)

	after := srv.do(http.MethodGet, "/api/auth/profile", bob, nil)
	require.Equal(t, http.StatusUnauthorized, after.Code)
	assert.Equal(t, "Invalid or inactive user", decode(t, after).Message)
}

func TestRestaurantAndMenuOwnership(t *testing.T) {
	srv := newTestServer(t, nil)
	ownerID, owner := srv.register("owner@orderup.test")
	rivalID, rival := srv.register("rival@orderup.test")

	asCustomer := srv.do(http.MethodPost, "/api/restaurants", owner, restaurantBody("Too Early"))
	require.Equal(t, http.StatusForbidden, asCustomer.Code)
	assert.Equal(t, "Insufficient permissions", decode(t, asCustomer).Message)

	srv.setRole(ownerID, enums.UserRoleRestaurantOwner)
	srv.setRole(rivalID, enums.UserRoleRestaurantOwner)

	created := srv.do(http.MethodPost, "/api/restaurants", owner, restaurantBody("Noodle House"))
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	restaurantID := idFrom(t, created)
	assert.Contains(t, created.Body.String(), `"country":"US"`)
	assert.Contains(t, created.Body.String(), `"estimatedTime":"30-45 min"`)

	hijack := srv.do(http.MethodPut, "/api/restaurants/"+restaurantID.String(), rival, map[string]any{"name": "Mine Now"})
	require.Equal(t, http.StatusForbidden, hijack.Code)
	assert.Equal(t, "Access denied", decode(t, hijack).Message)

	renamed := srv.do(http.MethodPut, "/api/restaurants/"+restaurantID.String(), owner, map[string]any{"name": "Noodle Palace"})
	require.Equal(t, http.StatusOK, renamed.Code)
	assert.Contains(t, renamed.Body.String(), `"name":"Noodle Palace"`)

	itemBody := map[string]any{
		"restaurantId": restaurantID.String(),
		"name":         "Dan Dan",
		"price":        11.5,
		"category":     "Noodles",
		"allergens":    []string{"peanuts"},
	}
	rivalItem := srv.do(http.MethodPost, "/api/menu", rival, itemBody)
	require.Equal(t, http.StatusForbidden, rivalItem.Code)

	item := srv.do(http.MethodPost, "/api/menu", owner, itemBody)
	require.Equal(t, http.StatusCreated, item.Code, item.Body.String())
	itemID := idFrom(t, item)

	alias := srv.do(http.MethodGet, "/api/restaurants/"+restaurantID.String()+"/menu", "", nil)
	require.Equal(t, http.StatusOK, alias.Code)
	env := decode(t, alias)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)

	byRestaurant := srv.do(http.MethodGet, "/api/menu/restaurant/"+restaurantID.String(), "", nil)
	require.Equal(t, http.StatusOK, byRestaurant.Code)

	detail := srv.do(http.MethodGet, "/api/restaurants/"+restaurantID.String(), "", nil)
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), `"menuItems":[{`)
	assert.Contains(t, detail.Body.String(), `"_count":{"menus":1,"reviews":0}`)

	mine := srv.do(http.MethodGet, "/api/restaurants?mine=true", rival, nil)
	require.Equal(t, http.StatusOK, mine.Code)
	assert.Equal(t, int64(0), decode(t, mine).Pagination.Total)

	anonMine := srv.do(http.MethodGet, "/api/restaurants?mine=true", "", nil)
	require.Equal(t, http.StatusUnauthorized, anonMine.Code)

	deleted := srv.do(http.MethodDelete, "/api/restaurants/"+restaurantID.String(), owner, nil)
	require.Equal(t, http.StatusOK, deleted.Code)

	gone := srv.do(http.MethodGet, "/api/restaurants/"+restaurantID.String(), "", nil)
	require.Equal(t, http.StatusNotFound, gone.Code)
	assert.Equal(t, "Restaurant not found", decode(t, gone).Message)

	hiddenItem := srv.do(http.MethodGet, "/api/menu/"+itemID.String(), "", nil)
	require.Equal(t, http.StatusNotFound, hiddenItem.Code)
	assert.Equal(t, "Menu item not found", decode(t, hiddenItem).Message)
}

func TestRestaurantListPagination(t *testing.T) {
	srv := newTestServer(t, nil)
	owner := dbtest.SeedUser(t, srv.db, "pager@orderup.test", enums.UserRoleRestaurantOwner)
	for i := 0; i < 12; i++ {
		dbtest.SeedRestaurant(t, srv.db, owner.ID, fmt.Sprintf("Spot %02d", i), "Austin")
	}

	resp := srv.do(http.MethodGet, "/api/restaurants?page=2&limit=5", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	env := decode(t, resp)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, types.PaginationMeta{Page: 2, Limit: 5, Total: 12, Pages: 3, HasNext: true, HasPrev: true}, *env.Pagination)

	var rows []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 5)

	bad := srv.do(http.MethodGet, "/api/restaurants?limit=0", "", nil)
	require.Equal(t, http.StatusBadRequest, bad.Code)
	badEnv := decode(t, bad)
	assert.Equal(t, "Validation failed", badEnv.Message)
	require.Len(t, badEnv.Errors, 1)
	assert.Equal(t, "query.limit", badEnv.Errors[0].Field)

	huge := srv.do(http.MethodGet, "/api/restaurants?page=100000000000000000&limit=100", "", nil)
	require.Equal(t, http.StatusBadRequest, huge.Code)
	hugeEnv := decode(t, huge)
	require.Len(t, hugeEnv.Errors, 1)
	assert.Equal(t, "query.page", hugeEnv.Errors[0].Field)
}

func TestGlobalRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.MaxRequests = 2
	})

	for i := 0; i < 2; i++ {
		resp := srv.do(http.MethodGet, "/api", "", nil)
		require.Equal(t, http.StatusOK, resp.Code)
	}
	blocked := srv.do(http.MethodGet, "/api", "", nil)
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "Too many requests, please try again later", decode(t, blocked).Message)
	assert.Equal(t, "2", blocked.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "0", blocked.Header().Get("RateLimit-Remaining"))
	assert.Equal(t, "60", blocked.Header().Get("RateLimit-Reset"))

	health := srv.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestGlobalRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.MaxRequests = 1
	})

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		req.Header.Set("X-Forwarded-For", forwarded)
		resp := httptest.NewRecorder()
		srv.handler.ServeHTTP(resp, req)
		return resp.Code
	}

	require.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.2"))
}

func TestLoginRateLimitPerEmail(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.AuthRateLimit.LoginWindow = time.Minute
		cfg.AuthRateLimit.LoginEmailLimit = 2
	})

	body := map[string]any{"email": "nobody@orderup.test", "password": "whatever-pass"}
	for i := 0; i < 2; i++ {
		resp := srv.do(http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}
	blocked := srv.do(http.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "Too many authentication attempts, please try again later", decode(t, blocked).Message)
}
