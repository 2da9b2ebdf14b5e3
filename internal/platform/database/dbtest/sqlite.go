// File: internal/platform/database/dbtest/sqlite.go

// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"legacyvault/internal/config"
	"legacyvault/internal/platform/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config returns a sqlite configuration pointing at a private in-memory database.
func Config(t testing.TB) *config.Config {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return &config.Config{
		DBDriver:   config.DBDriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8]),
		LogLevel:   "error",
	}
}

// Open creates the database, migrates models and closes it when the test ends.
func Open(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()
	cfg := Config(t)
	log := zap.NewNop()

	db, cleanup, err := database.NewGORM(cfg, log)
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(cleanup)

	if err := database.Migrate(context.Background(), db, cfg, log, models...); err != nil {
		t.Fatalf("migrating sqlite: %v", err)
	}
	return db
}
