// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"legacyvault/internal/asset"
	"legacyvault/internal/auth"
	"legacyvault/internal/config"
	"legacyvault/internal/jobs"
	"legacyvault/internal/middleware"
	"legacyvault/internal/platform/database"
	"legacyvault/internal/profile"
	"legacyvault/internal/shared"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	db         *gorm.DB

	sweepJob *jobs.BeneficiarySweepJob
}

// NewServer wires middleware and routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	identityProvider shared.IdentityProvider,
	profileService profile.Service,
	authHandler *auth.Handler,
	profileHandler *profile.Handler,
	assetHandler *asset.Handler,
	sweepJob *jobs.BeneficiarySweepJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.BackendTimeout(cfg.BackendTimeout))

	// Session first, then the profile for this request.
	sessionMW := middleware.RequireSession(identityProvider, logger.Named("session"))
	profileMW := middleware.ResolveProfile(profileService, logger.Named("profile"))

	s := &Server{
		router:   router,
		cfg:      cfg,
		logger:   logger,
		db:       db,
		sweepJob: sweepJob,
	}

	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1, sessionMW)
	profileHandler.RegisterRoutes(v1, sessionMW, profileMW)
	assetHandler.RegisterRoutes(v1, sessionMW, profileMW)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	return corsCfg
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		s.logger.Warn("Health check: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "message": "Database unreachable."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "LegacyVault API is healthy!"})
}

// Migrate brings the schema up to date on the server's own connection.
func (s *Server) Migrate(ctx context.Context) error {
	return database.Migrate(ctx, s.db, s.cfg, s.logger, Models()...)
}

func (s *Server) Start() error {
	if s.sweepJob != nil {
		if err := s.sweepJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start beneficiary sweep job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
		zap.String("auth_provider", s.cfg.AuthProvider),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.sweepJob != nil {
		s.sweepJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
