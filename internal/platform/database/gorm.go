// File: internal/platform/database/gorm.go
package database

import (
	"fmt"
	"strings"
	"time"

	"legacyvault/internal/config"
	"legacyvault/internal/platform/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGORM opens the configured database and returns it with a cleanup func
// that closes the pool.
func NewGORM(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DBDriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.SQLitePath))
	default:
		dialector = postgres.Open(cfg.DBSource)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log, cfg),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
		PrepareStmt:    cfg.DBDriver == config.DBDriverPostgres,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.DBDriver == config.DBDriverSQLite {
		// sqlite allows a single writer; one connection keeps writes serialised.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Connected to the database", zap.String("driver", cfg.DBDriver))
	cleanup := func() { CloseGORMDB(db, log) }
	return db, cleanup, nil
}

// NewGormLogger routes GORM's SQL logging through zap.
func NewGormLogger(log *zap.Logger, cfg *config.Config) gormlogger.Interface {
	var level gormlogger.LogLevel
	switch logger.ParseLevel(cfg.LogLevel) {
	case zapcore.DebugLevel:
		level = gormlogger.Info
	case zapcore.InfoLevel, zapcore.WarnLevel:
		level = gormlogger.Warn
	case zapcore.ErrorLevel:
		level = gormlogger.Error
	default:
		level = gormlogger.Silent
	}

	return gormlogger.New(
		zap.NewStdLog(log.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// CloseGORMDB closes the GORM database connection.
func CloseGORMDB(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Error getting underlying SQL DB for closing", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("Error closing database connection", zap.Error(err))
		return
	}
	log.Info("Database connection closed")
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}
