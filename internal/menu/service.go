package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	dbtypes "github.com/orderup/orderup-backend/pkg/db/types"
	"github.com/orderup/orderup-backend/pkg/enums"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/pagination"
	"github.com/orderup/orderup-backend/pkg/types"
)

const (
	itemNotFoundMessage       = "Menu item not found"
	restaurantNotFoundMessage = "Restaurant not found"
	accessDeniedMessage       = "Access denied"
)

// Service exposes menu reads to everyone and mutations to the owning restaurant.
type Service interface {
	List(ctx context.Context, filter Filter, params pagination.Params) ([]ItemDTO, types.PaginationMeta, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter Filter, params pagination.Params) ([]ItemDTO, types.PaginationMeta, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, req CreateRequest, callerID uuid.UUID, callerRole enums.UserRole) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest, callerID uuid.UUID, callerRole enums.UserRole) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole enums.UserRole) error
}

type menuRepository interface {
	List(ctx context.Context, filter Filter, offset, limit int) ([]models.MenuItem, int64, error)
	FindVisible(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo menuRepository
	logg *logger.Logger
}

// NewService constructs the menu service.
func NewService(repo menuRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter Filter, params pagination.Params) ([]ItemDTO, types.PaginationMeta, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, filter, params.Offset(), params.Limit)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list menu items")
	}
	return FromModels(rows), pagination.NewMeta(params, total), nil
}

func (s *service) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter Filter, params pagination.Params) ([]ItemDTO, types.PaginationMeta, error) {
	if _, err := s.activeRestaurant(ctx, restaurantID); err != nil {
		return nil, types.PaginationMeta{}, err
	}
	filter.RestaurantID = &restaurantID
	return s.List(ctx, filter, params)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindVisible(ctx, id)
	if err != nil {
		return nil, itemLoadError(err, "load menu item")
	}
	return FromModel(item), nil
}

func (s *service) Create(ctx context.Context, req CreateRequest, callerID uuid.UUID, callerRole enums.UserRole) (*ItemDTO, error) {
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Validation failed").
			WithDetails([]types.FieldError{{Field: "body.restaurantId", Message: "restaurantId must be a valid UUID"}})
	}
	restaurant, err := s.activeRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !canManage(restaurant, callerID, callerRole) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, accessDeniedMessage)
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Image:        req.Image,
		Category:     strings.TrimSpace(req.Category),
		IsAvailable:  boolOr(req.IsAvailable, true),
		IsVegetarian: boolOr(req.IsVegetarian, false),
		IsVegan:      boolOr(req.IsVegan, false),
		IsGlutenFree: boolOr(req.IsGlutenFree, false),
		IsSpicy:      boolOr(req.IsSpicy, false),
		Calories:     req.Calories,
		Allergens:    cleanAllergens(req.Allergens),
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create menu item")
	}
	ctx = s.logg.WithRestaurantID(ctx, restaurantID.String())
	s.logg.Info(s.logg.WithMenuItemID(ctx, created.ID.String()), "menu_item.created")
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest, callerID uuid.UUID, callerRole enums.UserRole) (*ItemDTO, error) {
	item, err := s.authorize(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, id, updateFields(req)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update menu item")
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, itemLoadError(err, "reload menu item")
	}
	ctx = s.logg.WithRestaurantID(ctx, item.RestaurantID.String())
	s.logg.Info(s.logg.WithMenuItemID(ctx, id.String()), "menu_item.updated")
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole enums.UserRole) error {
	item, err := s.authorize(ctx, id, callerID, callerRole)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete menu item")
	}
	ctx = s.logg.WithRestaurantID(ctx, item.RestaurantID.String())
	s.logg.Info(s.logg.WithMenuItemID(ctx, id.String()), "menu_item.deleted")
	return nil
}

func (s *service) activeRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindRestaurant(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, restaurantNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant")
	}
	if !restaurant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, restaurantNotFoundMessage)
	}
	return restaurant, nil
}

// authorize loads the item and checks that the caller manages its restaurant.
func (s *service) authorize(ctx context.Context, id, callerID uuid.UUID, callerRole enums.UserRole) (*models.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, itemLoadError(err, "load menu item")
	}
	restaurant, err := s.repo.FindRestaurant(ctx, item.RestaurantID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, restaurantNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant")
	}
	if !canManage(restaurant, callerID, callerRole) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, accessDeniedMessage)
	}
	return item, nil
}

func canManage(restaurant *models.Restaurant, callerID uuid.UUID, callerRole enums.UserRole) bool {
	return callerRole == enums.UserRoleAdmin || restaurant.OwnerID == callerID
}

func updateFields(req UpdateRequest) map[string]any {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	flags := map[string]*bool{
		"is_available":   req.IsAvailable,
		"is_vegetarian":  req.IsVegetarian,
		"is_vegan":       req.IsVegan,
		"is_gluten_free": req.IsGlutenFree,
		"is_spicy":       req.IsSpicy,
	}
	for column, value := range flags {
		if value != nil {
			fields[column] = *value
		}
	}
	if req.Calories != nil {
		fields["calories"] = *req.Calories
	}
	if req.Allergens != nil {
		fields["allergens"] = cleanAllergens(*req.Allergens)
	}
	return fields
}

func cleanAllergens(in []string) dbtypes.StringList {
	out := make(dbtypes.StringList, 0, len(in))
	for _, a := range in {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func boolOr(value *bool, def bool) bool {
	if value == nil {
		return def
	}
	return *value
}

func itemLoadError(err error, step string) error {
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, itemNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, step)
}
