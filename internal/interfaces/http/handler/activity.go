package handler

import (
	"time"

	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/helpdesk/backend/internal/interfaces/http/dto"
	"github.com/helpdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler exposes the tenant activity log to admins
type ActivityHandler struct {
	BaseHandler
	entries activity.Repository
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(entries activity.Repository) *ActivityHandler {
	return &ActivityHandler{entries: entries}
}

// RegisterRoutes registers activity routes
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity",
		middleware.RequireRole(identity.RoleSuperAdmin, identity.RoleTenantAdmin),
		h.ListActivity)
}

// ============================================================================
// Response DTOs
// ============================================================================

// ActivityEntryResponse is one activity-log record
type ActivityEntryResponse struct {
	ID         uuid.UUID              `json:"id"`
	UserID     uuid.UUID              `json:"user_id"`
	ActionType string                 `json:"action_type"`
	EntityType string                 `json:"entity_type"`
	EntityID   uuid.UUID              `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

func toActivityEntryResponse(e *activity.Entry) ActivityEntryResponse {
	return ActivityEntryResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		ActionType: string(e.ActionType),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}

// ============================================================================
// Handlers
// ============================================================================

// ListActivity godoc
//
//	@ID				listActivity
//	@Summary		List tenant activity
//	@Description	Append-only audit trail for the tenant, newest first
//	@Tags			activity
//	@Produce		json
//	@Param			page		query		int	false	"Page number"
//	@Param			page_size	query		int	false	"Page size"
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	if err := req.Validate(); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.entries.FindByTenant(c.Request.Context(), tenantID,
		shared.Filter{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ActivityEntryResponse, len(entries))
	for i := range entries {
		responses[i] = toActivityEntryResponse(&entries[i])
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}
