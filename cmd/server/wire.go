// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"context"
	"log"

	"legacyvault/internal/app"
	"legacyvault/internal/asset"
	"legacyvault/internal/auth"
	"legacyvault/internal/config"
	"legacyvault/internal/jobs"
	"legacyvault/internal/platform/crypto"
	"legacyvault/internal/platform/database"
	"legacyvault/internal/platform/logger"
	"legacyvault/internal/profile"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// initializeServer is the main Wire injector.
func initializeServer(ctx context.Context, cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		database.NewGORM,
		crypto.NewSealer,

		// Identity
		auth.NewIdentityProvider,
		auth.NewHandler,

		// Profiles
		profile.NewGORMRepository,
		profile.NewService,
		wire.Bind(new(profile.Service), new(*profile.ServiceImplementation)),
		profile.NewHandler,

		// Vault
		asset.NewGORMRepository,
		wire.Bind(new(asset.SecretSealer), new(*crypto.Sealer)),
		asset.NewService,
		wire.Bind(new(asset.Service), new(*asset.ServiceImplementation)),
		asset.NewHandler,

		// Jobs
		provideOrphanSweeper,
		jobs.NewBeneficiarySweepJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l, func() {
		if err := l.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}, nil
}

func provideOrphanSweeper(repo asset.Repository) jobs.OrphanSweeper {
	return repo
}
