package controllers

import (
	"net/http"

	"github.com/orderup/orderup-backend/api/middleware"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
)

func requireIdentity(r *http.Request) (middleware.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return middleware.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required")
	}
	return identity, nil
}

func serviceUnavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
