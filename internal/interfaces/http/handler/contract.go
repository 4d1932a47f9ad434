package handler

import (
	"time"

	contractapp "github.com/helpdesk/backend/internal/application/contract"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/helpdesk/backend/internal/interfaces/http/dto"
	"github.com/helpdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxContractPDFSize caps an uploaded contract document at 20 MiB
const maxContractPDFSize = 20 << 20

// ContractHandler handles contract HTTP requests. Authoring endpoints are
// super-admin only; the item catalog is open to every tenant user.
type ContractHandler struct {
	BaseHandler
	contracts *contractapp.Service
	catalog   *contractapp.CatalogService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contracts *contractapp.Service, catalog *contractapp.CatalogService) *ContractHandler {
	return &ContractHandler{contracts: contracts, catalog: catalog}
}

// RegisterRoutes registers contract routes
func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/contract-items", h.ListContractItems)

	admin := rg.Group("/contracts", middleware.RequireRole(identity.RoleSuperAdmin))
	{
		admin.POST("", h.CreateContract)
		admin.GET("", h.ListContracts)
		admin.GET("/:id", h.GetContract)
		admin.PUT("/:id", h.UpdateContract)
		admin.POST("/:id/pdf", h.UploadPDF)
		admin.POST("/parse-items", h.ParseItems)
	}
}

// ============================================================================
// Request/Response DTOs
// ============================================================================

// ContractItemPayload is one item in a contract create/update request
type ContractItemPayload struct {
	ID      string `json:"id"`
	Text    string `json:"text" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=text toggle limit unlimited location"`
	Enabled bool   `json:"enabled"`
	Value   int    `json:"value"`
	Loc     string `json:"location"`
	Period  string `json:"limit_period" binding:"omitempty,oneof=monthly yearly"`
}

// CreateContractRequest represents a contract creation request
type CreateContractRequest struct {
	TenantID  string                `json:"tenant_id" binding:"required,uuid"`
	Title     string                `json:"title" binding:"required"`
	StartDate time.Time             `json:"start_date" binding:"required"`
	EndDate   time.Time             `json:"end_date" binding:"required"`
	Items     []ContractItemPayload `json:"items"`
}

// UpdateContractRequest represents a partial contract update. Items, when
// present, replace the existing list wholesale.
type UpdateContractRequest struct {
	Title     *string                `json:"title"`
	StartDate *time.Time             `json:"start_date"`
	EndDate   *time.Time             `json:"end_date"`
	Items     *[]ContractItemPayload `json:"items"`
}

// ParseItemsRequest carries pasted contract text for item classification
type ParseItemsRequest struct {
	Text string `json:"text" binding:"required"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Title     string          `json:"title"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Items     []contract.Item `json:"items"`
	PDFURL    string          `json:"pdf_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toContractResponse(c *contract.Contract) ContractResponse {
	return ContractResponse{
		ID:        c.ID.String(),
		TenantID:  c.TenantID.String(),
		Title:     c.Title,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Items:     c.Summary.Items,
		PDFURL:    c.PDFURL,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toDomainItems(payloads []ContractItemPayload) []contract.Item {
	items := make([]contract.Item, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, contract.Item{
			ID:      p.ID,
			Text:    p.Text,
			Type:    contract.ItemType(p.Type),
			Enabled: p.Enabled,
			Value:   p.Value,
			Loc:     contract.Location(p.Loc),
			Period:  contract.LimitPeriod(p.Period),
		})
	}
	return items
}

// ============================================================================
// Handlers
// ============================================================================

// ListContractItems godoc
//
//	@ID				listContractItems
//	@Summary		List selectable contract items
//	@Description	Every actionable item of the tenant's active contracts, for ticket forms
//	@Tags			contracts
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/contract-items [get]
func (h *ContractHandler) ListContractItems(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}
	h.Success(c, h.catalog.ListSelectableItems(c.Request.Context(), tenantID))
}

// CreateContract godoc
//
//	@ID				createContract
//	@Summary		Create a contract
//	@Tags			contracts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateContractRequest	true	"Contract data"
//	@Success		201		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/contracts [post]
func (h *ContractHandler) CreateContract(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found in token")
		return
	}

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}
	tenantID, _ := uuid.Parse(req.TenantID)

	created, err := h.contracts.CreateContract(c.Request.Context(), tenantID, userID, contractapp.CreateContractInput{
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Items:     toDomainItems(req.Items),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toContractResponse(created))
}

// ListContracts godoc
//
//	@ID				listContracts
//	@Summary		List contracts for a tenant
//	@Tags			contracts
//	@Produce		json
//	@Param			tenant_id	query		string	true	"Tenant ID"
//	@Success		200			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/contracts [get]
func (h *ContractHandler) ListContracts(c *gin.Context) {
	tenantID, err := h.resolveTenantID(c)
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid or missing tenant_id")
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		items = append(items, toContractResponse(&contracts[i]))
	}
	h.Success(c, items)
}

// GetContract godoc
//
//	@ID				getContract
//	@Summary		Get a contract
//	@Tags			contracts
//	@Produce		json
//	@Param			id			path		string	true	"Contract ID"
//	@Param			tenant_id	query		string	true	"Tenant ID"
//	@Success		200			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/contracts/{id} [get]
func (h *ContractHandler) GetContract(c *gin.Context) {
	tenantID, err := h.resolveTenantID(c)
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid or missing tenant_id")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid contract ID")
		return
	}
	contractID, _ := uuid.Parse(uri.ID)

	found, err := h.contracts.GetContract(c.Request.Context(), tenantID, contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContractResponse(found))
}

// UpdateContract godoc
//
//	@ID				updateContract
//	@Summary		Update a contract
//	@Description	Items, when present, replace the existing list wholesale
//	@Tags			contracts
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string					true	"Contract ID"
//	@Param			tenant_id	query		string					true	"Tenant ID"
//	@Param			request		body		UpdateContractRequest	true	"Fields to update"
//	@Success		200			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/contracts/{id} [put]
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	tenantID, err := h.resolveTenantID(c)
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid or missing tenant_id")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found in token")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid contract ID")
		return
	}
	contractID, _ := uuid.Parse(uri.ID)

	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	input := contractapp.UpdateContractInput{
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Items != nil {
		items := toDomainItems(*req.Items)
		input.Items = &items
	}

	updated, err := h.contracts.UpdateContract(c.Request.Context(), tenantID, userID, contractID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContractResponse(updated))
}

// UploadPDF godoc
//
//	@ID				uploadContractPDF
//	@Summary		Upload the contract source document
//	@Tags			contracts
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string	true	"Contract ID"
//	@Param			tenant_id	query		string	true	"Tenant ID"
//	@Param			file		formData	file	true	"PDF document"
//	@Success		200			{object}	dto.Response
//	@Failure		413			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/contracts/{id}/pdf [post]
func (h *ContractHandler) UploadPDF(c *gin.Context) {
	tenantID, err := h.resolveTenantID(c)
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid or missing tenant_id")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found in token")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid contract ID")
		return
	}
	contractID, _ := uuid.Parse(uri.ID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file in multipart form")
		return
	}
	if fileHeader.Size > maxContractPDFSize {
		h.Error(c, 413, dto.ErrCodePayloadTooLarge, "Document exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	updated, err := h.contracts.UploadPDF(c.Request.Context(), tenantID, userID, contractID, fileHeader.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContractResponse(updated))
}

// ParseItems godoc
//
//	@ID				parseContractItems
//	@Summary		Classify pasted contract text into typed items
//	@Description	Preview only; nothing is persisted
//	@Tags			contracts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ParseItemsRequest	true	"Contract text"
//	@Success		200		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/contracts/parse-items [post]
func (h *ContractHandler) ParseItems(c *gin.Context) {
	var req ParseItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}
	h.Success(c, h.contracts.ParseItems(req.Text))
}

// resolveTenantID picks the tenant a super-admin is operating on from the
// tenant_id query parameter, falling back to the caller's own tenant claim.
func (h *ContractHandler) resolveTenantID(c *gin.Context) (uuid.UUID, error) {
	if raw := c.Query("tenant_id"); raw != "" {
		return uuid.Parse(raw)
	}
	return getTenantID(c)
}
