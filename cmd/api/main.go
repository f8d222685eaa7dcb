package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/orderup/orderup-backend/api/routes"
	"github.com/orderup/orderup-backend/internal/auth"
	"github.com/orderup/orderup-backend/internal/menu"
	"github.com/orderup/orderup-backend/internal/restaurants"
	"github.com/orderup/orderup-backend/internal/users"
	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/logger"
	"github.com/orderup/orderup-backend/pkg/metrics"
	"github.com/orderup/orderup-backend/pkg/migrate"
	"github.com/orderup/orderup-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	var (
		cache       routes.Cache
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			_ = dbClient.Close()
			os.Exit(1)
		}
		cache = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, rate limiting disabled")
	}

	handler, err := buildHandler(cfg, logg, dbClient, cache)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		if closeErr := closeResources(dbClient, redisClient); closeErr != nil {
			logg.Error(ctx, "error closing resources", closeErr)
		}
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"version": cfg.App.Version,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	runErr := group.Wait()

	if closeErr := closeResources(dbClient, redisClient); closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
	}
	if runErr != nil {
		logg.Error(ctx, "api server stopped unexpectedly", runErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func closeResources(dbClient *db.Client, redisClient *redis.Client) error {
	err := dbClient.Close()
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	return err
}

func buildHandler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, cache routes.Cache) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		DB:        dbClient,
		JWTConfig: cfg.JWT,
		Password:  cfg.Password,
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}
	userService, err := users.NewService(userRepo, cfg.Password, logg)
	if err != nil {
		return nil, err
	}
	restaurantService, err := restaurants.NewService(restaurants.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return nil, err
	}
	menuService, err := menu.NewService(menu.NewRepository(dbClient.DB()), logg)
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(routes.Dependencies{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Cache:       cache,
		Metrics:     metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
		UserLookup:  userRepo,
		Auth:        authService,
		Users:       userService,
		Restaurants: restaurantService,
		Menu:        menuService,
	}), nil
}
