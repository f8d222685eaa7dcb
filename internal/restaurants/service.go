package restaurants

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/orderup/orderup-backend/pkg/enums"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/pagination"
	"github.com/orderup/orderup-backend/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	restaurantNotFoundMessage = "Restaurant not found"
	accessDeniedMessage       = "Access denied"

	defaultCountry       = "US"
	defaultEstimatedTime = "30-45 min"
)

// Service exposes restaurant reads to everyone and mutations to owners and admins.
type Service interface {
	List(ctx context.Context, filter Filter, params pagination.Params) ([]RestaurantDTO, types.PaginationMeta, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DetailDTO, error)
	Create(ctx context.Context, req CreateRequest, ownerID uuid.UUID) (*RestaurantDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest, callerID uuid.UUID, callerRole enums.UserRole) (*RestaurantDTO, error)
	Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole enums.UserRole) error
}

type restaurantRepository interface {
	List(ctx context.Context, filter Filter, offset, limit int) ([]models.Restaurant, int64, error)
	FindActiveDetail(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Create(ctx context.Context, restaurant *models.Restaurant) (*models.Restaurant, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type service struct {
	repo restaurantRepository
	logg *logger.Logger
}

// NewService constructs the restaurant service.
func NewService(repo restaurantRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter Filter, params pagination.Params) ([]RestaurantDTO, types.PaginationMeta, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, filter, params.Offset(), params.Limit)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list restaurants")
	}
	out := make([]RestaurantDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, pagination.NewMeta(params, total), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*DetailDTO, error) {
	restaurant, err := s.repo.FindActiveDetail(ctx, id)
	if err != nil {
		return nil, loadError(err, "load restaurant")
	}
	return DetailFromModel(restaurant), nil
}

func (s *service) Create(ctx context.Context, req CreateRequest, ownerID uuid.UUID) (*RestaurantDTO, error) {
	restaurant := &models.Restaurant{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Image:         req.Image,
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Address:       strings.TrimSpace(req.Address),
		City:          strings.TrimSpace(req.City),
		State:         strings.TrimSpace(req.State),
		ZipCode:       strings.TrimSpace(req.ZipCode),
		Country:       defaultCountry,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		IsActive:      true,
		DeliveryFee:   decimal.Zero,
		MinOrder:      decimal.Zero,
		EstimatedTime: defaultEstimatedTime,
		OwnerID:       ownerID,
	}
	if req.Country != nil && strings.TrimSpace(*req.Country) != "" {
		restaurant.Country = strings.TrimSpace(*req.Country)
	}
	if req.DeliveryFee != nil {
		restaurant.DeliveryFee = *req.DeliveryFee
	}
	if req.MinOrder != nil {
		restaurant.MinOrder = *req.MinOrder
	}
	if req.EstimatedTime != nil && strings.TrimSpace(*req.EstimatedTime) != "" {
		restaurant.EstimatedTime = strings.TrimSpace(*req.EstimatedTime)
	}

	created, err := s.repo.Create(ctx, restaurant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create restaurant")
	}
	s.logg.Info(s.logg.WithRestaurantID(ctx, created.ID.String()), "restaurant.created")
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest, callerID uuid.UUID, callerRole enums.UserRole) (*RestaurantDTO, error) {
	if _, err := s.authorize(ctx, id, callerID, callerRole); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, id, updateFields(req)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update restaurant")
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "reload restaurant")
	}
	s.logg.Info(s.logg.WithRestaurantID(ctx, id.String()), "restaurant.updated")
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole enums.UserRole) error {
	if _, err := s.authorize(ctx, id, callerID, callerRole); err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate restaurant")
	}
	s.logg.Info(s.logg.WithRestaurantID(ctx, id.String()), "restaurant.deleted")
	return nil
}

// authorize loads the restaurant and checks that the caller owns it or is an admin.
func (s *service) authorize(ctx context.Context, id, callerID uuid.UUID, callerRole enums.UserRole) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "load restaurant")
	}
	if callerRole != enums.UserRoleAdmin && restaurant.OwnerID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, accessDeniedMessage)
	}
	return restaurant, nil
}

func updateFields(req UpdateRequest) map[string]any {
	fields := map[string]any{}
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	setString("name", req.Name)
	setString("description", req.Description)
	setString("image", req.Image)
	setString("phone", req.Phone)
	setString("address", req.Address)
	setString("city", req.City)
	setString("state", req.State)
	setString("zip_code", req.ZipCode)
	setString("country", req.Country)
	setString("estimated_time", req.EstimatedTime)
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}
	if req.DeliveryFee != nil {
		fields["delivery_fee"] = *req.DeliveryFee
	}
	if req.MinOrder != nil {
		fields["min_order"] = *req.MinOrder
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	return fields
}

func loadError(err error, step string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, restaurantNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, step)
}
