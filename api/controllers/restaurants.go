package controllers

import (
	"net/http"

	"github.com/orderup/orderup-backend/api/responses"
	"github.com/orderup/orderup-backend/api/validators"
	"github.com/orderup/orderup-backend/internal/restaurants"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/pagination"
)

// RestaurantsList is public. With mine=true it lists the caller's own restaurants
// and requires an identity resolved by OptionalAuth.
func RestaurantsList(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("restaurant"))
			return
		}

		q := validators.NewQueryReader(r)
		query := restaurants.ListQuery{
			Page:      q.Int("page", pagination.DefaultPage),
			Limit:     q.Int("limit", pagination.DefaultLimit),
			Search:    q.String("search"),
			City:      q.String("city"),
			MinRating: q.Float("minRating"),
			Mine:      q.Bool("mine"),
		}
		if err := validators.Collect(q.Err(), validators.ValidateQuery(&query)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := restaurants.Filter{Search: query.Search, City: query.City, MinRating: query.MinRating}
		if query.Mine != nil && *query.Mine {
			identity, err := requireIdentity(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.OwnerID = &identity.UserID
		}

		list, meta, err := svc.List(r.Context(), filter, pagination.Params{Page: query.Page, Limit: query.Limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePaginated(w, "Restaurants fetched successfully", list, meta)
	}
}

func RestaurantsGet(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("restaurant"))
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Restaurant fetched successfully", restaurant)
	}
}

func RestaurantsCreate(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("restaurant"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body restaurants.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Create(r.Context(), body, identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Restaurant created successfully", restaurant)
	}
}

func RestaurantsUpdate(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("restaurant"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, idErr := validators.PathUUID(r, "id")
		var body restaurants.UpdateRequest
		if err := validators.Collect(idErr, validators.DecodeJSONBody(r, &body)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Update(r.Context(), id, body, identity.UserID, identity.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Restaurant updated successfully", restaurant)
	}
}

// RestaurantsDelete deactivates the restaurant. Its rows stay in place.
func RestaurantsDelete(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("restaurant"))
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

		responses.WriteSuccess(w, "Restaurant deleted successfully", nil)
	}
}
