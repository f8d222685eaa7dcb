package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/api/middleware"
	"github.com/orderup/orderup-backend/internal/auth"
	"github.com/orderup/orderup-backend/internal/menu"
	"github.com/orderup/orderup-backend/internal/restaurants"
	"github.com/orderup/orderup-backend/internal/users"
	"github.com/orderup/orderup-backend/pkg/enums"
	"github.com/orderup/orderup-backend/pkg/pagination"
	"github.com/orderup/orderup-backend/pkg/types"
)

type envelope struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Data       json.RawMessage       `json:"data"`
	Error      string                `json:"error"`
	Errors     []types.FieldError    `json:"errors"`
	Pagination *types.PaginationMeta `json:"pagination"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func fieldNames(errs []types.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func withIdentity(req *http.Request, id uuid.UUID, role enums.UserRole) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), middleware.Identity{UserID: id, Email: "caller@orderup.test", Role: role})
	return req.WithContext(ctx)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type stubAuthService struct {
	resp    *auth.AuthResponse
	refresh *auth.RefreshResponse
	err     error

	gotRegister auth.RegisterRequest
	gotToken    string
}

func (s *stubAuthService) Register(_ context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	s.gotRegister = req
	return s.resp, s.err
}

func (s *stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Refresh(_ context.Context, token string) (*auth.RefreshResponse, error) {
	s.gotToken = token
	return s.refresh, s.err
}

type stubUserService struct {
	profile *users.ProfileDTO
	user    *users.UserDTO
	list    []users.UserDTO
	err     error

	gotID     uuid.UUID
	gotFilter users.ListFilter
	gotParams pagination.Params
}

func (s *stubUserService) List(_ context.Context, filter users.ListFilter, params pagination.Params) ([]users.UserDTO, types.PaginationMeta, error) {
	s.gotFilter, s.gotParams = filter, params
	return s.list, pagination.NewMeta(params, int64(len(s.list))), s.err
}

func (s *stubUserService) GetProfile(_ context.Context, id uuid.UUID) (*users.ProfileDTO, error) {
	s.gotID = id
	return s.profile, s.err
}

func (s *stubUserService) GetByID(_ context.Context, id uuid.UUID) (*users.UserDTO, error) {
	s.gotID = id
	return s.user, s.err
}

func (s *stubUserService) UpdateProfile(_ context.Context, id uuid.UUID, _ users.UpdateProfileRequest) (*users.UserDTO, error) {
	s.gotID = id
	return s.user, s.err
}

func (s *stubUserService) ChangePassword(_ context.Context, id uuid.UUID, _ users.ChangePasswordRequest) error {
	s.gotID = id
	return s.err
}

func (s *stubUserService) Deactivate(_ context.Context, id uuid.UUID) error {
	s.gotID = id
	return s.err
}

type stubRestaurantService struct {
	list   []restaurants.RestaurantDTO
	detail *restaurants.DetailDTO
	one    *restaurants.RestaurantDTO
	err    error

	gotFilter restaurants.Filter
	gotParams pagination.Params
	gotID     uuid.UUID
	gotCaller uuid.UUID
	gotRole   enums.UserRole
}

func (s *stubRestaurantService) List(_ context.Context, filter restaurants.Filter, params pagination.Params) ([]restaurants.RestaurantDTO, types.PaginationMeta, error) {
	s.gotFilter, s.gotParams = filter, params
	return s.list, pagination.NewMeta(params, int64(len(s.list))), s.err
}

func (s *stubRestaurantService) GetByID(_ context.Context, id uuid.UUID) (*restaurants.DetailDTO, error) {
	s.gotID = id
	return s.detail, s.err
}

func (s *stubRestaurantService) Create(_ context.Context, _ restaurants.CreateRequest, ownerID uuid.UUID) (*restaurants.RestaurantDTO, error) {
	s.gotCaller = ownerID
	return s.one, s.err
}

func (s *stubRestaurantService) Update(_ context.Context, id uuid.UUID, _ restaurants.UpdateRequest, callerID uuid.UUID, role enums.UserRole) (*restaurants.RestaurantDTO, error) {
	s.gotID, s.gotCaller, s.gotRole = id, callerID, role
	return s.one, s.err
}

func (s *stubRestaurantService) Delete(_ context.Context, id uuid.UUID, callerID uuid.UUID, role enums.UserRole) error {
	s.gotID, s.gotCaller, s.gotRole = id, callerID, role
	return s.err
}

type stubMenuService struct {
	items []menu.ItemDTO
	item  *menu.ItemDTO
	err   error

	gotFilter     menu.Filter
	gotParams     pagination.Params
	gotID         uuid.UUID
	gotRestaurant uuid.UUID
	gotCaller     uuid.UUID
	gotRole       enums.UserRole
}

func (s *stubMenuService) List(_ context.Context, filter menu.Filter, params pagination.Params) ([]menu.ItemDTO, types.PaginationMeta, error) {
	s.gotFilter, s.gotParams = filter, params
	return s.items, pagination.NewMeta(params, int64(len(s.items))), s.err
}

func (s *stubMenuService) ListByRestaurant(_ context.Context, restaurantID uuid.UUID, filter menu.Filter, params pagination.Params) ([]menu.ItemDTO, types.PaginationMeta, error) {
	s.gotRestaurant, s.gotFilter, s.gotParams = restaurantID, filter, params
	return s.items, pagination.NewMeta(params, int64(len(s.items))), s.err
}

func (s *stubMenuService) GetByID(_ context.Context, id uuid.UUID) (*menu.ItemDTO, error) {
	s.gotID = id
	return s.item, s.err
}

func (s *stubMenuService) Create(_ context.Context, _ menu.CreateRequest, callerID uuid.UUID, role enums.UserRole) (*menu.ItemDTO, error) {
	s.gotCaller, s.gotRole = callerID, role
	return s.item, s.err
}

func (s *stubMenuService) Update(_ context.Context, id uuid.UUID, _ menu.UpdateRequest, callerID uuid.UUID, role enums.UserRole) (*menu.ItemDTO, error) {
	s.gotID, s.gotCaller, s.gotRole = id, callerID, role
	return s.item, s.err
}

func (s *stubMenuService) Delete(_ context.Context, id uuid.UUID, callerID uuid.UUID, role enums.UserRole) error {
	s.gotID, s.gotCaller, s.gotRole = id, callerID, role
	return s.err
}
