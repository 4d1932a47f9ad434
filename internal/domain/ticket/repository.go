package ticket

import (
	"context"
	"time"

	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/google/uuid"
)

// ListFilter narrows ticket listings
type ListFilter struct {
	Status   *Status
	Priority *Priority
	Page     int
	PageSize int
}

// Repository defines persistence operations for tickets and their messages
// and attachments.
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Ticket, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]Ticket, int64, error)
	Save(ctx context.Context, t *Ticket) error

	// Create inserts a ticket together with an optional initial message in
	// one transaction. Used for tickets that do not consume a limited item.
	Create(ctx context.Context, t *Ticket, initialMessage *Message) error

	// CreateWithinLimit inserts a ticket that consumes a limited contract
	// item. The period count and the insert run inside one transaction with
	// a row lock on the contract, so two concurrent creations cannot both
	// observe count == limit-1 and overshoot the cap. Returns the count
	// observed inside the transaction and shared.ErrLimitExceeded when the
	// cap is already reached.
	CreateWithinLimit(ctx context.Context, t *Ticket, initialMessage *Message, limit int, periodStart time.Time) (int64, error)

	// CountByContractItemSince counts tickets created against the given
	// item reference since periodStart. Counting is by creation time;
	// closed tickets still consume quota.
	CountByContractItemSince(ctx context.Context, tenantID uuid.UUID, ref contract.ItemRef, periodStart time.Time) (int64, error)

	AddMessage(ctx context.Context, m *Message) error
	FindMessages(ctx context.Context, ticketID uuid.UUID, includeInternal bool) ([]Message, error)

	AddAttachment(ctx context.Context, a *Attachment) error
	FindAttachment(ctx context.Context, ticketID, attachmentID uuid.UUID) (*Attachment, error)
	FindAttachments(ctx context.Context, ticketID uuid.UUID) ([]Attachment, error)
}
