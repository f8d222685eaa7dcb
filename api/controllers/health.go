package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/orderup/orderup-backend/api/responses"
	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe can reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

type readinessResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks"`
}

func HealthLive(cfg config.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, healthResponse{
			Success:     true,
			Message:     "OrderUP API is running",
			Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
			Environment: cfg.Env,
			Version:     cfg.Version,
		})
	}
}

// HealthReady reports 503 when the database, or redis when configured, does not answer.
func HealthReady(database Pinger, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "disabled"}
		ready := true

		if database == nil {
			checks["database"] = "unconfigured"
			ready = false
		} else if err := database.Ping(ctx); err != nil {
			logg.Error(ctx, "health.database_unreachable", err)
			checks["database"] = "unreachable"
			ready = false
		}

		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(ctx); err != nil {
				logg.Error(ctx, "health.redis_unreachable", err)
				checks["redis"] = "unreachable"
				ready = false
			}
		}

		if !ready {
			responses.WriteJSON(w, http.StatusServiceUnavailable, readinessResponse{Message: "Service not ready", Checks: checks})
			return
		}
		responses.WriteJSON(w, http.StatusOK, readinessResponse{Success: true, Message: "Service ready", Checks: checks})
	}
}
