// File: internal/auth/handler.go
package auth

import (
	"errors"

	"legacyvault/internal/common"
	"legacyvault/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	provider shared.IdentityProvider
	logger   *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(provider shared.IdentityProvider, logger *zap.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signUp)
		authGroup.POST("/signin", h.signIn)

		authenticated := authGroup.Group("")
		authenticated.Use(sessionMW)
		{
			authenticated.POST("/signout", h.signOut)
			authenticated.GET("/me", h.me)
		}
	}
}

func (h *Handler) bindCredentials(c *gin.Context) (*CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return nil, false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return nil, false
	}
	return &req, true
}

func (h *Handler) signUp(c *gin.Context) {
	req, ok := h.bindCredentials(c)
	if !ok {
		return
	}
	identity, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Account created. Sign in to continue.", identity)
}

func (h *Handler) signIn(c *gin.Context) {
	req, ok := h.bindCredentials(c)
	if !ok {
		return
	}
	session, err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Signed in.", session)
}

func (h *Handler) signOut(c *gin.Context) {
	if err := h.provider.SignOut(c.Request.Context(), common.GetSessionTokenFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Signed out.", nil)
}

func (h *Handler) me(c *gin.Context) {
	identity := common.GetIdentityFromContext(c)
	if identity == nil {
		h.logger.Error("Identity not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrUnauthenticated)
		return
	}
	common.RespondOK(c, "Session is active.", identity)
}
