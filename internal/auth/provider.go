// File: internal/auth/provider.go
package auth

import (
	"context"
	"time"

	"legacyvault/internal/config"
	"legacyvault/internal/firebase"
	"legacyvault/internal/shared"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewIdentityProvider returns the provider selected by AUTH_PROVIDER.
func NewIdentityProvider(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (shared.IdentityProvider, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderFirebase:
		return firebase.NewFirebaseService(ctx, cfg, logger)
	default:
		logger.Info("Using local identity provider")
		return NewLocalProvider(
			NewGORMIdentityRepository(db),
			NewJWTService(cfg, logger),
			NewInMemoryBlocklistService(10*time.Minute),
			logger,
		), nil
	}
}
