// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legacyvault/internal/app"
	"legacyvault/internal/asset"
	"legacyvault/internal/config"
	"legacyvault/internal/jobs"
	"legacyvault/internal/platform/database"
	"legacyvault/internal/platform/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	sweepCmd := flag.NewFlagSet("sweep", flag.ExitOnError)
	sweepTimeout := sweepCmd.Duration("timeout", 5*time.Minute, "Upper bound for a single sweep")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			_ = migrateCmd.Parse(os.Args[2:])
			if err := runMigrate(); err != nil {
				log.Fatalf("FATAL: Migration failed: %v", err)
			}
			return
		case "sweep":
			_ = sweepCmd.Parse(os.Args[2:])
			if err := runSweep(*sweepTimeout); err != nil {
				log.Fatalf("FATAL: Beneficiary sweep failed: %v", err)
			}
			return
		}
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, cleanup, err := initializeServer(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if cfg.DBAutoMigrate {
		if err := server.Migrate(ctx); err != nil {
			log.Printf("ERROR: Failed to migrate database: %v", err)
			return
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Printf("ERROR: Server failed to start or crashed: %v", err)
		return
	case <-ctx.Done():
		log.Println("INFO: Received shutdown signal. Shutting down server...")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// openStore loads config and opens the database for one-shot commands.
func openStore() (*config.Config, *zap.Logger, *gorm.DB, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, cleanup, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init database: %w", err)
	}
	return cfg, appLogger, db, func() {
		cleanup()
		_ = appLogger.Sync()
	}, nil
}

func runMigrate() error {
	cfg, appLogger, db, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := database.Migrate(context.Background(), db, cfg, appLogger, app.Models()...); err != nil {
		return err
	}
	appLogger.Info("Database migrated.")
	return nil
}

func runSweep(timeout time.Duration) error {
	cfg, appLogger, db, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	job := jobs.NewBeneficiarySweepJob(asset.NewGORMRepository(db), appLogger, cfg)
	removed, err := job.RunOnce(ctx)
	if err != nil {
		return err
	}
	appLogger.Info("Beneficiary sweep finished.", zap.Int64("removed", removed))
	return nil
}
