package handler

import (
	"time"

	ticketapp "github.com/helpdesk/backend/internal/application/ticket"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/helpdesk/backend/internal/interfaces/http/dto"
	"github.com/helpdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxAttachmentSize caps a single attachment upload at 10 MiB
const maxAttachmentSize = 10 << 20

// TicketHandler handles ticket HTTP requests
type TicketHandler struct {
	BaseHandler
	tickets *ticketapp.Service
	limits  *ticketapp.LimitService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets *ticketapp.Service, limits *ticketapp.LimitService) *TicketHandler {
	return &TicketHandler{tickets: tickets, limits: limits}
}

// RegisterRoutes registers ticket routes
func (h *TicketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tickets := rg.Group("/tickets")
	{
		tickets.POST("", h.CreateTicket)
		tickets.GET("", h.ListTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.PATCH("/:id", h.UpdateTicket)

		tickets.GET("/:id/messages", h.ListMessages)
		tickets.POST("/:id/messages", h.AddMessage)

		tickets.POST("/:id/attachments", h.UploadAttachment)
		tickets.GET("/:id/attachments/:attachmentId/download", h.DownloadAttachment)
	}

	rg.GET("/limit-check", h.CheckLimit)
}

// ============================================================================
// Request/Response DTOs
// ============================================================================

// CreateTicketRequest represents a ticket creation request
type CreateTicketRequest struct {
	Title          string `json:"title" binding:"required,max=200"`
	Priority       string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ContractItemID string `json:"contract_item_id"`
	InitialMessage string `json:"initial_message" binding:"omitempty,max=10000"`
}

// UpdateTicketRequest represents a partial ticket update
type UpdateTicketRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Status   *string `json:"status" binding:"omitempty,oneof=open in_progress waiting closed"`
	Priority *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

// AddMessageRequest represents a new conversation message
type AddMessageRequest struct {
	Content        string `json:"content" binding:"required,max=10000"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	ContractItemID string     `json:"contract_item_id,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// MessageResponse represents a conversation message in API responses
type MessageResponse struct {
	ID             string    `json:"id"`
	TicketID       string    `json:"ticket_id"`
	AuthorID       string    `json:"author_id"`
	Content        string    `json:"content"`
	IsInternalNote bool      `json:"is_internal_note"`
	CreatedAt      time.Time `json:"created_at"`
}

// AttachmentResponse represents attachment metadata in API responses
type AttachmentResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// DownloadURLResponse carries a presigned attachment download URL
type DownloadURLResponse struct {
	URL string `json:"url"`
}

func toTicketResponse(t *ticket.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:         t.ID.String(),
		Title:      t.Title,
		Status:     string(t.Status),
		Priority:   string(t.Priority),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		ResolvedAt: t.ResolvedAt,
	}
	if t.ContractItemRef != nil {
		resp.ContractItemID = t.ContractItemRef.String()
	}
	if t.CreatedBy != nil {
		resp.CreatedBy = t.CreatedBy.String()
	}
	return resp
}

func toMessageResponse(m *ticket.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID.String(),
		TicketID:       m.TicketID.String(),
		AuthorID:       m.AuthorID.String(),
		Content:        m.Content,
		IsInternalNote: m.IsInternalNote,
		CreatedAt:      m.CreatedAt,
	}
}

func toAttachmentResponse(a *ticket.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		TicketID:    a.TicketID.String(),
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

// ============================================================================
// Handlers
// ============================================================================

// CreateTicket godoc
//
//	@ID				createTicket
//	@Summary		Create a ticket
//	@Description	Create a ticket, optionally consuming a contract item's quota
//	@Tags			tickets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTicketRequest	true	"Ticket data"
//	@Success		201		{object}	dto.Response
//	@Failure		422		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found in token")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	t, err := h.tickets.CreateTicket(c.Request.Context(), tenantID, userID, ticketapp.CreateTicketInput{
		Title:          req.Title,
		Priority:       ticket.Priority(req.Priority),
		ContractItemID: req.ContractItemID,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTicketResponse(t))
}

// ListTickets godoc
//
//	@ID				listTickets
//	@Summary		List tickets
//	@Description	List the tenant's tickets with optional status/priority filters
//	@Tags			tickets
//	@Produce		json
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			status		query		string	false	"Status filter"
//	@Param			priority	query		string	false	"Priority filter"
//	@Success		200			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid query parameters: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, err.Error())
		return
	}

	filter := ticket.ListFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status := ticket.Status(req.Status)
		if !status.IsValid() {
			h.Error(c, 400, dto.ErrCodeValidation, "Unknown status filter")
			return
		}
		filter.Status = &status
	}
	if req.Priority != "" {
		priority := ticket.Priority(req.Priority)
		if !priority.IsValid() {
			h.Error(c, 400, dto.ErrCodeValidation, "Unknown priority filter")
			return
		}
		filter.Priority = &priority
	}

	tickets, total, err := h.tickets.ListTickets(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, toTicketResponse(&tickets[i]))
	}
	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// GetTicket godoc
//
//	@ID				getTicket
//	@Summary		Get a ticket
//	@Tags			tickets
//	@Produce		json
//	@Param			id	path		string	true	"Ticket ID"
//	@Success		200	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid ticket ID")
		return
	}
	ticketID, _ := uuid.Parse(uri.ID)

	t, err := h.tickets.GetTicket(c.Request.Context(), tenantID, ticketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTicketResponse(t))
}

// UpdateTicket godoc
//
//	@ID				updateTicket
//	@Summary		Update a ticket
//	@Description	Patch title, status or priority; the contract item reference is immutable
//	@Tags			tickets
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Ticket ID"
//	@Param			request	body		UpdateTicketRequest	true	"Fields to update"
//	@Success		200		{object}	dto.Response
//	@Failure		422		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets/{id} [patch]
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found in token")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid ticket ID")
		return
	}
	ticketID, _ := uuid.Parse(uri.ID)

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	input := ticketapp.UpdateTicketInput{Title: req.Title}
	if req.Status != nil {
		status := ticket.Status(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := ticket.Priority(*req.Priority)
		input.Priority = &priority
	}

	t, err := h.tickets.UpdateTicket(c.Request.Context(), tenantID, userID, ticketID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTicketResponse(t))
}

// ListMessages godoc
//
//	@ID				listTicketMessages
//	@Summary		List a ticket's conversation
//	@Description	Internal notes are only included for admin roles
//	@Tags			tickets
//	@Produce		json
//	@Param			id	path		string	true	"Ticket ID"
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets/{id}/messages [get]
func (h *TicketHandler) ListMessages(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid ticket ID")
		return
	}
	ticketID, _ := uuid.Parse(uri.ID)

	includeInternal := middleware.GetJWTRole(c).IsAdmin()

	messages, err := h.tickets.ListMessages(c.Request.Context(), tenantID, ticketID, includeInternal)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, toMessageResponse(&messages[i]))
	}
	h.Success(c, items)
}

// AddMessage godoc
//
//	@ID				addTicketMessage
//	@Summary		Add a message to a ticket
//	@Tags			tickets
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Ticket ID"
//	@Param			request	body		AddMessageRequest	true	"Message"
//	@Success		201		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets/{id}/messages [post]
func (h *TicketHandler) AddMessage(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found in token")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid ticket ID")
		return
	}
	ticketID, _ := uuid.Parse(uri.ID)

	var req AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}

	// Only admins may write internal notes
	if req.IsInternalNote && !middleware.GetJWTRole(c).IsAdmin() {
		h.Forbidden(c, "Internal notes require an admin role")
		return
	}

	m, err := h.tickets.AddMessage(c.Request.Context(), tenantID, userID, ticketID, req.Content, req.IsInternalNote)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toMessageResponse(m))
}

// UploadAttachment godoc
//
//	@ID				uploadTicketAttachment
//	@Summary		Upload an attachment
//	@Tags			tickets
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Ticket ID"
//	@Param			file	formData	file	true	"File to upload"
//	@Success		201		{object}	dto.Response
//	@Failure		413		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets/{id}/attachments [post]
func (h *TicketHandler) UploadAttachment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found in token")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid ticket ID")
		return
	}
	ticketID, _ := uuid.Parse(uri.ID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file in multipart form")
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		h.Error(c, 413, dto.ErrCodePayloadTooLarge, "Attachment exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	a, err := h.tickets.UploadAttachment(c.Request.Context(), tenantID, userID, ticketID,
		fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAttachmentResponse(a))
}

// DownloadAttachment godoc
//
//	@ID				downloadTicketAttachment
//	@Summary		Get a presigned attachment download URL
//	@Tags			tickets
//	@Produce		json
//	@Param			id				path		string	true	"Ticket ID"
//	@Param			attachmentId	path		string	true	"Attachment ID"
//	@Success		200				{object}	dto.Response
//	@Failure		404				{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tickets/{id}/attachments/{attachmentId}/download [get]
func (h *TicketHandler) DownloadAttachment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid ticket ID")
		return
	}
	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid attachment ID")
		return
	}

	url, err := h.tickets.AttachmentDownloadURL(c.Request.Context(), tenantID, ticketID, attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DownloadURLResponse{URL: url})
}

// CheckLimit godoc
//
//	@ID				checkContractItemLimit
//	@Summary		Preview a contract item's limit
//	@Description	Advisory check for ticket forms; creation re-checks authoritatively
//	@Tags			tickets
//	@Produce		json
//	@Param			contract_item_id	query		string	true	"Encoded contract item reference"
//	@Success		200					{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/limit-check [get]
func (h *TicketHandler) CheckLimit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant ID not found in token")
		return
	}

	encodedRef := c.Query("contract_item_id")
	if encodedRef == "" || encodedRef == ticketapp.OthersSentinel {
		// "others" consumes no quota; report unconditionally allowed
		h.Success(c, ticketapp.LimitCheckResult{Allowed: true})
		return
	}

	result, err := h.limits.CheckLimit(c.Request.Context(), tenantID, encodedRef, time.Now().UTC())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
