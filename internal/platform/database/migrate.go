// File: internal/platform/database/migrate.go
package database

import (
	"context"
	"embed"
	"fmt"

	"legacyvault/internal/config"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema up to date. Postgres runs the embedded goose
// migrations; sqlite (tests, local dev) is built from the gorm models.
func Migrate(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger, models ...interface{}) error {
	if cfg.DBDriver == config.DBDriverSQLite {
		if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
		log.Info("sqlite schema migrated", zap.Int("models", len(models)))
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(zap.NewStdLog(log.Named("goose")))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err == nil {
		log.Info("postgres schema migrated", zap.Int64("version", version))
	}
	return nil
}
