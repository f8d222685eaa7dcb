package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/orderup/orderup-backend/api/responses"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/metrics"
	"github.com/orderup/orderup-backend/pkg/redis"
)

const rateLimitedMessage = "Too many requests, please try again later"

type windowLimiter interface {
	FixedWindow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.WindowResult, error)
}

// RateLimit applies a global fixed window per client IP and reports the
// window state in RateLimit-* headers. When the counter store is unreachable
// the request is let through and a warning is logged.
func RateLimit(window time.Duration, maxRequests int, store windowLimiter, m *metrics.HTTPMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || window <= 0 || maxRequests <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientIP(r)

			result, err := store.FixedWindow(ctx, "global:"+ip, int64(maxRequests), window)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "reason", err.Error()), "rate_limit.unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
			h.Set("RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			h.Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(result.ResetIn.Seconds()))))

			if !result.Allowed {
				m.IncThrottled("global")
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"ip":       ip,
						"attempts": result.Count,
						"limit":    result.Limit,
					}), "rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, rateLimitedMessage))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
