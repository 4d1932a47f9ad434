// Package notification delivers ticket event notifications. The current
// implementation writes structured log events; an SMTP or webhook sender can
// replace it behind the same interface.
package notification

import (
	"context"

	ticketapp "github.com/helpdesk/backend/internal/application/ticket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogNotifier emits one structured log record per notification. The records
// carry everything a real sender would need, so swapping in a delivery
// backend changes no call sites.
type LogNotifier struct {
	logger     *zap.Logger
	opsMailbox string
}

// NewLogNotifier creates a LogNotifier. opsMailbox is the operational inbox
// that receives full ticket context on creation.
func NewLogNotifier(logger *zap.Logger, opsMailbox string) *LogNotifier {
	return &LogNotifier{
		logger:     logger.Named("notification"),
		opsMailbox: opsMailbox,
	}
}

// NotifyTicketCreated records a creation notification for tenant members
func (n *LogNotifier) NotifyTicketCreated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error {
	n.logger.Info("Ticket created notification",
		zap.String("tenant_id", tenantID.String()),
		zap.String("ticket_id", ticketID.String()),
		zap.String("title", title),
		zap.Strings("recipients", recipients))
	return nil
}

// NotifyTicketUpdated records an update notification for tenant members
func (n *LogNotifier) NotifyTicketUpdated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error {
	n.logger.Info("Ticket updated notification",
		zap.String("tenant_id", tenantID.String()),
		zap.String("ticket_id", ticketID.String()),
		zap.String("title", title),
		zap.Strings("recipients", recipients))
	return nil
}

// NotifyOpsMailbox records the full ticket context destined for the
// operational mailbox
func (n *LogNotifier) NotifyOpsMailbox(ctx context.Context, note ticketapp.OpsNotification) error {
	n.logger.Info("Ops mailbox notification",
		zap.String("mailbox", n.opsMailbox),
		zap.String("tenant_id", note.TenantID.String()),
		zap.String("tenant_name", note.TenantName),
		zap.String("ticket_id", note.TicketID.String()),
		zap.String("title", note.Title),
		zap.String("priority", string(note.Priority)),
		zap.String("status", string(note.Status)),
		zap.String("creator_email", note.CreatorEmail),
		zap.String("initial_message", note.InitialMessage))
	return nil
}

// Ensure LogNotifier implements the ticket notifier
var _ ticketapp.Notifier = (*LogNotifier)(nil)
