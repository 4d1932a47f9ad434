package models

import (
	"time"

	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/google/uuid"
)

// TicketModel is the GORM model for tickets. ContractItemRef stores the
// encoded "<contractID>-<itemID>" reference; the composite index backs the
// period usage counts.
type TicketModel struct {
	TenantAggregateModel
	Title           string     `gorm:"type:varchar(200);not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:'open';index"`
	Priority        string     `gorm:"type:varchar(10);not null;default:'medium'"`
	ContractItemRef *string    `gorm:"type:varchar(255);index:idx_tickets_item_usage,priority:2"`
	ResolvedAt      *time.Time `gorm:""`
}

// TableName returns the table name for the model
func (TicketModel) TableName() string {
	return "tickets"
}

// ToDomain converts the model to a domain ticket. A malformed stored
// reference is surfaced as an error rather than silently dropped.
func (m *TicketModel) ToDomain() (*ticket.Ticket, error) {
	t := &ticket.Ticket{
		Title:      m.Title,
		Status:     ticket.Status(m.Status),
		Priority:   ticket.Priority(m.Priority),
		ResolvedAt: m.ResolvedAt,
	}
	if m.ContractItemRef != nil {
		ref, err := contract.ParseItemRef(*m.ContractItemRef)
		if err != nil {
			return nil, err
		}
		t.ContractItemRef = &ref
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t, nil
}

// TicketModelFromDomain creates a model from a domain ticket
func TicketModelFromDomain(t *ticket.Ticket) *TicketModel {
	m := &TicketModel{
		Title:      t.Title,
		Status:     string(t.Status),
		Priority:   string(t.Priority),
		ResolvedAt: t.ResolvedAt,
	}
	if t.ContractItemRef != nil {
		encoded := t.ContractItemRef.String()
		m.ContractItemRef = &encoded
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}

// MessageModel is the GORM model for ticket messages
type MessageModel struct {
	BaseModel
	TicketID       uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID       uuid.UUID `gorm:"type:uuid;not null"`
	Content        string    `gorm:"type:text;not null"`
	IsInternalNote bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for the model
func (MessageModel) TableName() string {
	return "ticket_messages"
}

// ToDomain converts the model to a domain message
func (m *MessageModel) ToDomain() *ticket.Message {
	return &ticket.Message{
		BaseEntity:     m.BaseModel.ToDomain(),
		TicketID:       m.TicketID,
		AuthorID:       m.AuthorID,
		Content:        m.Content,
		IsInternalNote: m.IsInternalNote,
	}
}

// MessageModelFromDomain creates a model from a domain message
func MessageModelFromDomain(msg *ticket.Message) *MessageModel {
	m := &MessageModel{
		TicketID:       msg.TicketID,
		AuthorID:       msg.AuthorID,
		Content:        msg.Content,
		IsInternalNote: msg.IsInternalNote,
	}
	m.FromDomainBaseEntity(msg.BaseEntity)
	return m
}

// AttachmentModel is the GORM model for ticket attachment metadata
type AttachmentModel struct {
	BaseModel
	TicketID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	SizeBytes   int64     `gorm:"not null"`
	StorageKey  string    `gorm:"type:varchar(512);not null"`
}

// TableName returns the table name for the model
func (AttachmentModel) TableName() string {
	return "ticket_attachments"
}

// ToDomain converts the model to a domain attachment
func (m *AttachmentModel) ToDomain() *ticket.Attachment {
	return &ticket.Attachment{
		BaseEntity:  m.BaseModel.ToDomain(),
		TicketID:    m.TicketID,
		UploadedBy:  m.UploadedBy,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		StorageKey:  m.StorageKey,
	}
}

// AttachmentModelFromDomain creates a model from a domain attachment
func AttachmentModelFromDomain(a *ticket.Attachment) *AttachmentModel {
	m := &AttachmentModel{
		TicketID:    a.TicketID,
		UploadedBy:  a.UploadedBy,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		StorageKey:  a.StorageKey,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
