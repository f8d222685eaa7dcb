package controllers

import (
	"net/http"

	"github.com/orderup/orderup-backend/api/responses"
	"github.com/orderup/orderup-backend/api/validators"
	"github.com/orderup/orderup-backend/internal/users"
	"github.com/orderup/orderup-backend/pkg/enums"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/pagination"
)

// UsersList is the admin directory of accounts.
func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("user"))
			return
		}

		q := validators.NewQueryReader(r)
		query := users.ListQuery{
			Page:     q.Int("page", pagination.DefaultPage),
			Limit:    q.Int("limit", pagination.DefaultLimit),
			Search:   q.String("search"),
			IsActive: q.Bool("isActive"),
		}
		if raw := q.String("role"); raw != nil {
			role := enums.UserRole(*raw)
			query.Role = &role
		}
		if err := validators.Collect(q.Err(), validators.ValidateQuery(&query)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, meta, err := svc.List(r.Context(), users.ListFilter{
			Search:   query.Search,
			Role:     query.Role,
			IsActive: query.IsActive,
		}, pagination.Params{Page: query.Page, Limit: query.Limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePaginated(w, "Users retrieved successfully", list, meta)
	}
}

func UsersGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("user"))
			return
		}
		id, err := validators.PathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "User retrieved successfully", user)
	}
}

// UsersDeactivate flips isActive off. Accounts are never removed.
func UsersDeactivate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("user"))
			return
		}
		id, err := validators.PathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Account deactivated successfully", nil)
	}
}
