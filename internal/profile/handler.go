// File: internal/profile/handler.go
package profile

import (
	"errors"

	"legacyvault/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for profile handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts /profile behind the given guards (session, then profile resolution).
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, guards ...gin.HandlerFunc) {
	profileGroup := router.Group("/profile", guards...)
	{
		profileGroup.GET("", h.getProfile)
		profileGroup.PATCH("", h.updateProfile)
	}
}

func (h *Handler) getProfile(c *gin.Context) {
	profileID := common.GetProfileIDFromContext(c)
	if profileID == uuid.Nil {
		h.logger.Error("Profile ID not found in context", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile identifier missing."))
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), profileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToProfileResponse(p, identityEmail(c)))
}

func (h *Handler) updateProfile(c *gin.Context) {
	profileID := common.GetProfileIDFromContext(c)
	if profileID == uuid.Nil {
		h.logger.Error("Profile ID not found in context", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile identifier missing."))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	p, err := h.service.UpdateFullName(c.Request.Context(), profileID, req.FullName)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", ToProfileResponse(p, identityEmail(c)))
}

func identityEmail(c *gin.Context) string {
	if identity := common.GetIdentityFromContext(c); identity != nil {
		return identity.Email
	}
	return ""
}
