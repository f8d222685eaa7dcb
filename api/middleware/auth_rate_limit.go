package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/orderup/orderup-backend/api/responses"
	pkgerrors "github.com/orderup/orderup-backend/pkg/errors"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/metrics"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

const authRateLimitedMessage = "Too many authentication attempts, please try again later"

// AuthRateLimitPolicy throttles one credential endpoint per client IP and per
// submitted email. A zero limit turns that dimension off.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// authCounter is one counter a request is charged against.
type authCounter struct {
	dimension string
	subject   string
	limit     int
}

func (p AuthRateLimitPolicy) counters(ip, emailHash string) []authCounter {
	var out []authCounter
	if p.ipLimit > 0 && ip != "" {
		out = append(out, authCounter{dimension: "ip", subject: ip, limit: p.ipLimit})
	}
	if p.emailLimit > 0 && emailHash != "" {
		out = append(out, authCounter{dimension: "email", subject: emailHash, limit: p.emailLimit})
	}
	return out
}

func (p AuthRateLimitPolicy) key(c authCounter) string {
	return "auth:" + p.name + ":" + c.dimension + ":" + c.subject
}

// AuthRateLimit guards login and register. The email is peeked from the JSON
// body, which is handed on to the handler intact. Unlike the global limiter a
// store failure rejects the request.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, m *metrics.HTTPMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var emailHash string
			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Validation failed"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				emailHash = hashEmail(body)
			}

			for _, counter := range policy.counters(clientIP(r), emailHash) {
				allowed, count, err := store.FixedWindowAllow(ctx, policy.key(counter), int64(counter.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":         policy.name,
							"scope":          counter.dimension,
							"subject":        counter.subject,
							"attempts":       count,
							"limit":          counter.limit,
							"window_seconds": int(policy.window.Seconds()),
						}), "auth.rate_limit.blocked")
					}
					m.IncThrottled("auth_" + policy.name)
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, authRateLimitedMessage))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address. Forwarding headers count only after TrustedProxy
// has rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// hashEmail returns the sha256 of the normalized email in payload, or "" when
// there is none. Raw addresses never reach redis or the logs.
func hashEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
