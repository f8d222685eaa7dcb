package controllers

import (
	"net/http"

	"github.com/orderup/orderup-backend/api/responses"
)

type welcomeResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Version       string `json:"version"`
	Documentation string `json:"documentation"`
}

func Welcome(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, welcomeResponse{
			Success:       true,
			Message:       "Welcome to OrderUP API",
			Version:       version,
			Documentation: "/api-docs",
		})
	}
}

type routeNotFoundResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// NotFound answers any unmatched route.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusNotFound, routeNotFoundResponse{
			Message: "Route not found",
			Path:    r.URL.RequestURI(),
		})
	}
}

func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusMethodNotAllowed, routeNotFoundResponse{
			Message: "Method not allowed",
			Path:    r.URL.RequestURI(),
		})
	}
}
