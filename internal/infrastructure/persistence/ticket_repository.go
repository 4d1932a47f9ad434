package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/helpdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketRepository implements the ticket.Repository interface
type TicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// FindByIDForTenant loads one ticket scoped to a tenant
func (r *TicketRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ticket.Ticket, error) {
	var model models.TicketModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByTenant lists a tenant's tickets, newest first, with optional status
// and priority filters.
func (r *TicketRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter ticket.ListFilter) ([]ticket.Ticket, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var rows []models.TicketModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	tickets := make([]ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, total, nil
}

// Save updates an existing ticket
func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := models.TicketModelFromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// Create inserts a ticket together with an optional initial message in one
// transaction
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket, initialMessage *ticket.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createTicketWithMessage(tx, t, initialMessage)
	})
}

// CreateWithinLimit inserts a ticket that consumes a limited contract item.
// The contract row is locked for the duration of the transaction, so the
// re-count and the insert are atomic with respect to concurrent creators:
// two requests racing for the last slot serialize on the lock and the loser
// sees the winner's ticket in its count.
func (r *TicketRepository) CreateWithinLimit(ctx context.Context, t *ticket.Ticket, initialMessage *ticket.Message, limit int, periodStart time.Time) (int64, error) {
	if t.ContractItemRef == nil {
		return 0, shared.ErrInvalidReference
	}
	encodedRef := t.ContractItemRef.String()

	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.ContractModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ?", t.TenantID).
			First(&locked, "id = ?", t.ContractItemRef.ContractID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		err = tx.Model(&models.TicketModel{}).
			Where("tenant_id = ?", t.TenantID).
			Where("contract_item_ref = ?", encodedRef).
			Where("created_at >= ?", periodStart).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count >= int64(limit) {
			return shared.ErrLimitExceeded
		}

		return createTicketWithMessage(tx, t, initialMessage)
	})
	return count, err
}

// createTicketWithMessage inserts the ticket row and, if present, the
// initial message within the caller's transaction.
func createTicketWithMessage(tx *gorm.DB, t *ticket.Ticket, initialMessage *ticket.Message) error {
	if err := tx.Create(models.TicketModelFromDomain(t)).Error; err != nil {
		return err
	}
	if initialMessage != nil {
		if err := tx.Create(models.MessageModelFromDomain(initialMessage)).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountByContractItemSince counts tickets created against the given item
// reference since periodStart
func (r *TicketRepository) CountByContractItemSince(ctx context.Context, tenantID uuid.UUID, ref contract.ItemRef, periodStart time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("tenant_id = ?", tenantID).
		Where("contract_item_ref = ?", ref.String()).
		Where("created_at >= ?", periodStart).
		Count(&count).Error
	return count, err
}

// AddMessage appends a message to a ticket
func (r *TicketRepository) AddMessage(ctx context.Context, m *ticket.Message) error {
	return r.db.WithContext(ctx).Create(models.MessageModelFromDomain(m)).Error
}

// FindMessages returns a ticket's messages in conversation order. Internal
// notes are filtered out unless requested.
func (r *TicketRepository) FindMessages(ctx context.Context, ticketID uuid.UUID, includeInternal bool) ([]ticket.Message, error) {
	query := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID)
	if !includeInternal {
		query = query.Where("is_internal_note = ?", false)
	}

	var rows []models.MessageModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	messages := make([]ticket.Message, len(rows))
	for i := range rows {
		messages[i] = *rows[i].ToDomain()
	}
	return messages, nil
}

// AddAttachment records attachment metadata for a ticket
func (r *TicketRepository) AddAttachment(ctx context.Context, a *ticket.Attachment) error {
	return r.db.WithContext(ctx).Create(models.AttachmentModelFromDomain(a)).Error
}

// FindAttachment loads one attachment belonging to a ticket
func (r *TicketRepository) FindAttachment(ctx context.Context, ticketID, attachmentID uuid.UUID) (*ticket.Attachment, error) {
	var model models.AttachmentModel
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		First(&model, "id = ?", attachmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAttachments lists a ticket's attachments, newest first
func (r *TicketRepository) FindAttachments(ctx context.Context, ticketID uuid.UUID) ([]ticket.Attachment, error) {
	var rows []models.AttachmentModel
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	attachments := make([]ticket.Attachment, len(rows))
	for i := range rows {
		attachments[i] = *rows[i].ToDomain()
	}
	return attachments, nil
}

// Ensure TicketRepository implements the interface
var _ ticket.Repository = (*TicketRepository)(nil)
