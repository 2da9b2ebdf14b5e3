// File: internal/middleware/session.go
package middleware

import (
	"errors"

	"legacyvault/internal/common"
	"legacyvault/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireSession rejects requests without a live session. A missing session is
// an expected outcome, so it is only logged at debug level and never retried.
func RequireSession(provider shared.IdentityProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := common.GetTokenFromContext(c)
		if token == "" {
			logger.Debug("No bearer token on protected route", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthenticated)
			return
		}

		identity, err := provider.CurrentIdentity(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrUnauthenticated) {
				logger.Debug("Session rejected", zap.String("path", c.Request.URL.Path))
			} else {
				logger.Warn("Session check failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			}
			common.RespondWithError(c, err)
			return
		}

		c.Set(common.IdentityKey, identity)
		c.Set(common.SessionTokenKey, token)
		c.Next()
	}
}

// ResolveProfile maps the session's identity to a profile id for this request
// only. Nothing is cached between requests.
func ResolveProfile(resolver shared.ProfileResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := common.GetIdentityFromContext(c)
		if identity == nil {
			common.RespondWithError(c, common.ErrUnauthenticated)
			return
		}

		profileID, err := resolver.ResolveProfileID(c.Request.Context(), identity)
		if err != nil {
			logger.Warn("Profile resolution failed", zap.Error(err), zap.String("userID", identity.ID))
			common.RespondWithError(c, err)
			return
		}

		c.Set(common.ProfileIDKey, profileID)
		c.Next()
	}
}
