package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orderup/orderup-backend/api/controllers"
	"github.com/orderup/orderup-backend/api/middleware"
	"github.com/orderup/orderup-backend/internal/auth"
	"github.com/orderup/orderup-backend/internal/menu"
	"github.com/orderup/orderup-backend/internal/restaurants"
	"github.com/orderup/orderup-backend/internal/users"
	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/enums"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/metrics"
	"github.com/orderup/orderup-backend/pkg/redis"
)

// Cache is the counter store behind both rate limiters and the readiness probe.
type Cache interface {
	FixedWindow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.WindowResult, error)
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Dependencies is everything the router wires into handlers. Cache may be nil,
// which disables rate limiting. Gatherer defaults to the prometheus default registry.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Cache    Cache
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	UserLookup  middleware.UserLookup
	Auth        auth.Service
	Users       users.Service
	Restaurants restaurants.Service
	Menu        menu.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	cache := deps.Cache
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		middleware.TrustedProxy(cfg.HTTP.TrustProxy),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.SecureHeaders,
		middleware.CORS(cfg.HTTP.CORSOrigins),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.ErrorDetails(cfg.App.ErrorDetailsEnabled()),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
	)
	r.NotFound(controllers.NotFound())
	r.MethodNotAllowed(controllers.MethodNotAllowed())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authenticate := middleware.Authenticate(cfg.JWT, deps.UserLookup, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, deps.UserLookup, logg)
	managers := middleware.RequireRoles(logg, enums.UserRoleRestaurantOwner, enums.UserRoleAdmin)

	r.Get("/health", controllers.HealthLive(cfg.App))
	r.Get("/health/ready", controllers.HealthReady(deps.DB, readinessCache(cache), logg))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, cache, deps.Metrics, logg))

		r.Get("/", controllers.Welcome(cfg.App.Version))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, cache, deps.Metrics, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, cache, deps.Metrics, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/profile", controllers.AuthProfile(deps.Users, logg))
				r.Put("/profile", controllers.AuthUpdateProfile(deps.Users, logg))
				r.Put("/password", controllers.AuthChangePassword(deps.Users, logg))
				r.Post("/logout", controllers.AuthLogout(logg))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)
			r.With(middleware.RequireRoles(logg, enums.UserRoleAdmin)).Get("/", controllers.UsersList(deps.Users, logg))
			r.Route("/{userId}", func(r chi.Router) {
				r.Use(middleware.RequireOwnership("userId", logg))
				r.Get("/", controllers.UsersGet(deps.Users, logg))
				r.Delete("/", controllers.UsersDeactivate(deps.Users, logg))
			})
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.With(optionalAuth).Get("/", controllers.RestaurantsList(deps.Restaurants, logg))
			r.Get("/{id}", controllers.RestaurantsGet(deps.Restaurants, logg))
			r.Get("/{id}/menu", controllers.MenuByRestaurant(deps.Menu, "id", logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticate, managers)
				r.Post("/", controllers.RestaurantsCreate(deps.Restaurants, logg))
				r.Put("/{id}", controllers.RestaurantsUpdate(deps.Restaurants, logg))
				r.Delete("/{id}", controllers.RestaurantsDelete(deps.Restaurants, logg))
			})
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuList(deps.Menu, logg))
			r.Get("/restaurant/{restaurantId}", controllers.MenuByRestaurant(deps.Menu, "restaurantId", logg))
			r.Get("/{id}", controllers.MenuGet(deps.Menu, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticate, managers)
				r.Post("/", controllers.MenuCreate(deps.Menu, logg))
				r.Put("/{id}", controllers.MenuUpdate(deps.Menu, logg))
				r.Delete("/{id}", controllers.MenuDelete(deps.Menu, logg))
			})
		})
	})

	return r
}

// readinessCache keeps a nil Cache a nil Pinger so readiness reports redis as disabled.
func readinessCache(cache Cache) controllers.Pinger {
	if cache == nil {
		return nil
	}
	return cache
}
