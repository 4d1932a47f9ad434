package handler

import (
	"time"

	ticketapp "github.com/helpdesk/backend/internal/application/ticket"
	"github.com/gin-gonic/gin"
)

// UsageHandler handles contract item usage HTTP requests
type UsageHandler struct {
	BaseHandler
	usage *ticketapp.UsageService
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage *ticketapp.UsageService) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// RegisterRoutes registers usage routes
func (h *UsageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.GetUsageStats)
}

// GetUsageStats godoc
//
//	@ID				getUsageStats
//	@Summary		Get contract item usage statistics
//	@Description	Per-item consumption across the tenant's active contracts, most-consumed first
//	@Tags			usage
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/usage [get]
func (h *UsageHandler) GetUsageStats(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}

	stats, err := h.usage.GetUsageStats(c.Request.Context(), tenantID, time.Now().UTC())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
