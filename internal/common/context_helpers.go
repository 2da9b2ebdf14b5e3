// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"legacyvault/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetTokenFromContext retrieves the bearer token string from the Authorization header.
// Returns an empty string if not found.
func GetTokenFromContext(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetProfileIDFromContext retrieves the resolved profile ID from the Gin context.
// Returns uuid.Nil if not found or not a UUID.
func GetProfileIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ProfileIDKey)
	if !exists {
		return uuid.Nil
	}
	profileID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return profileID
}

// GetSessionTokenFromContext returns the token the session guard accepted.
func GetSessionTokenFromContext(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

// GetIdentityFromContext returns the identity set by the session guard, or nil.
func GetIdentityFromContext(c *gin.Context) *shared.Identity {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, _ := val.(*shared.Identity)
	return identity
}
