package controllers

import (
	"net/http"

	"github.com/orderup/orderup-backend/api/responses"
	"github.com/orderup/orderup-backend/api/validators"
	"github.com/orderup/orderup-backend/internal/menu"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/pagination"
)

const menuListedMessage = "Menu items fetched successfully"

func readMenuQuery(r *http.Request) (menu.ListQuery, error) {
	q := validators.NewQueryReader(r)
	query := menu.ListQuery{
		Page:         q.Int("page", pagination.DefaultPage),
		Limit:        q.Int("limit", pagination.DefaultLimit),
		RestaurantID: q.String("restaurantId"),
		Search:       q.String("search"),
		Category:     q.String("category"),
		MinPrice:     q.Float("minPrice"),
		MaxPrice:     q.Float("maxPrice"),
		IsAvailable:  q.Bool("isAvailable"),
		IsVegetarian: q.Bool("isVegetarian"),
		IsVegan:      q.Bool("isVegan"),
		IsGlutenFree: q.Bool("isGlutenFree"),
		IsSpicy:      q.Bool("isSpicy"),
	}
	if err := validators.Collect(q.Err(), validators.ValidateQuery(&query)); err != nil {
		return menu.ListQuery{}, err
	}
	return query, nil
}

func MenuList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("menu"))
			return
		}
		query, err := readMenuQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.List(r.Context(), query.Filter(), pagination.Params{Page: query.Page, Limit: query.Limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePaginated(w, menuListedMessage, items, meta)
	}
}

// MenuByRestaurant lists one restaurant's menu. param names the chi path
// parameter carrying the restaurant id, since two routes share this handler.
func MenuByRestaurant(svc menu.Service, param string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("menu"))
			return
		}
		restaurantID, idErr := validators.PathUUID(r, param)
		query, queryErr := readMenuQuery(r)
		if err := validators.Collect(idErr, queryErr); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.ListByRestaurant(r.Context(), restaurantID, query.Filter(), pagination.Params{Page: query.Page, Limit: query.Limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePaginated(w, menuListedMessage, items, meta)
	}
}

func MenuGet(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("menu"))
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Menu item fetched successfully", item)
	}
}

func MenuCreate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("menu"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body menu.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), body, identity.UserID, identity.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Menu item created successfully", item)
	}
}

func MenuUpdate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("menu"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, idErr := validators.PathUUID(r, "id")
		var body menu.UpdateRequest
		if err := validators.Collect(idErr, validators.DecodeJSONBody(r, &body)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, body, identity.UserID, identity.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Menu item updated successfully", item)
	}
}

func MenuDelete(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("menu"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, identity.UserID, identity.Role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Menu item deleted successfully", nil)
	}
}
