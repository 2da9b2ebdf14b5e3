// File: internal/asset/handler.go
package asset

import (
	"errors"

	"legacyvault/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for asset and beneficiary handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new asset handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the vault routes behind the given guards.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, guards ...gin.HandlerFunc) {
	vault := router.Group("", guards...)
	{
		vault.GET("/assets", h.listAssets)
		vault.POST("/assets", h.createAsset)
		vault.POST("/assets/:asset_id/beneficiaries", h.addBeneficiaries)

		vault.GET("/beneficiaries", h.listBeneficiaries)
		vault.DELETE("/beneficiaries/:beneficiary_id", h.deleteBeneficiary)

		vault.GET("/dashboard", h.dashboard)
	}
}

func (h *Handler) listAssets(c *gin.Context) {
	profileID, ok := h.profileID(c)
	if !ok {
		return
	}
	listing, err := h.service.ListAssets(c.Request.Context(), profileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Assets retrieved successfully.", listing)
}

func (h *Handler) createAsset(c *gin.Context) {
	profileID, ok := h.profileID(c)
	if !ok {
		return
	}
	var req CreateAssetRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.service.CreateAsset(c.Request.Context(), profileID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Asset added successfully.", h.refetch(c, profileID, gin.H{"asset": created}))
}

func (h *Handler) addBeneficiaries(c *gin.Context) {
	profileID, ok := h.profileID(c)
	if !ok {
		return
	}
	assetID, err := uuid.Parse(c.Param("asset_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid asset ID format."))
		return
	}
	var req AddBeneficiariesRequest
	if !bindJSON(c, &req) {
		return
	}

	added, err := h.service.CreateBeneficiaries(c.Request.Context(), assetID, profileID, req.Beneficiaries)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if len(added) == 0 {
		common.RespondOK(c, "No beneficiaries to add.", gin.H{"beneficiaries": added})
		return
	}

	common.RespondCreated(c, "Beneficiaries added successfully.", h.refetch(c, profileID, gin.H{"beneficiaries": added}))
}

func (h *Handler) deleteBeneficiary(c *gin.Context) {
	profileID, ok := h.profileID(c)
	if !ok {
		return
	}
	beneficiaryID, err := uuid.Parse(c.Param("beneficiary_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid beneficiary ID format."))
		return
	}

	if err := h.service.DeleteBeneficiary(c.Request.Context(), beneficiaryID, profileID); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Beneficiary removed.", h.refetch(c, profileID, gin.H{}))
}

func (h *Handler) listBeneficiaries(c *gin.Context) {
	profileID, ok := h.profileID(c)
	if !ok {
		return
	}
	listing, err := h.service.ListAssets(c.Request.Context(), profileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Beneficiaries retrieved successfully.", h.service.Directory(listing))
}

func (h *Handler) dashboard(c *gin.Context) {
	profileID, ok := h.profileID(c)
	if !ok {
		return
	}
	listing, err := h.service.ListAssets(c.Request.Context(), profileID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dashboard retrieved successfully.", gin.H{
		"summary": h.service.Summarize(listing),
		"listing": listing,
	})
}

// refetch adds the listing read after a committed write to result. A failed
// read goes out as refetch_error; the write itself has already happened.
func (h *Handler) refetch(c *gin.Context, profileID uuid.UUID, result gin.H) gin.H {
	listing, err := h.service.ListAssets(c.Request.Context(), profileID)
	if err != nil {
		h.logger.Warn("Re-fetch after write failed", zap.String("profileID", profileID.String()), zap.Error(err))
		apiErr, ok := common.IsAPIError(err)
		if !ok {
			apiErr = common.ErrFetchFailed.WithDetails(err.Error())
		}
		result["refetch_error"] = apiErr
		return result
	}
	result["listing"] = listing
	return result
}

func (h *Handler) profileID(c *gin.Context) (uuid.UUID, bool) {
	profileID := common.GetProfileIDFromContext(c)
	if profileID == uuid.Nil {
		h.logger.Error("Profile ID not found in context", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile identifier missing."))
		return uuid.Nil, false
	}
	return profileID, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}
