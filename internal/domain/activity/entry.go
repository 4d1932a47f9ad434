package activity

import (
	"context"

	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActionType names what happened
type ActionType string

const (
	ActionTicketCreated   ActionType = "ticket_created"
	ActionTicketUpdated   ActionType = "ticket_updated"
	ActionMessageAdded    ActionType = "message_added"
	ActionContractCreated ActionType = "contract_created"
	ActionContractUpdated ActionType = "contract_updated"
)

// Entry is one append-only activity-log record. Metadata is free-form and
// persisted as jsonb.
type Entry struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	UserID     uuid.UUID
	ActionType ActionType
	EntityType string
	EntityID   uuid.UUID
	Metadata   map[string]interface{}
}

// NewEntry creates an activity-log entry
func NewEntry(tenantID, userID uuid.UUID, action ActionType, entityType string, entityID uuid.UUID, metadata map[string]interface{}) *Entry {
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		UserID:     userID,
		ActionType: action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}
}

// Repository defines persistence operations for the activity log
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Entry, int64, error)
}
