package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/orderup/orderup-backend/pkg/config"
	"github.com/orderup/orderup-backend/pkg/db"
	"github.com/orderup/orderup-backend/pkg/db/models"
	"github.com/orderup/orderup-backend/pkg/logger"
)

// MaybeRunDev migrates on startup when running in development with
// ORDERUP_AUTO_MIGRATE set. Postgres gets the embedded goose files and sqlite
// is built from the gorm models.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	if client.Dialect() == config.DriverSQLite {
		logg.Info(ctx, "migrate.automigrate.start")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("automigrate sqlite: %w", err)
		}
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "migrate.goose.start")
	var applied strings.Builder
	if err := Run(ctx, sqlDB, "", "up", &applied); err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", strings.TrimSpace(applied.String())), "migrate.goose.done")
	return nil
}
