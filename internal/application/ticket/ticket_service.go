package ticket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OthersSentinel is the catalog value meaning "no contract item". Tickets
// created with it consume no quota and skip the limit evaluator entirely.
const OthersSentinel = "others"

// sideEffectTimeout bounds the fire-and-forget work dispatched after a
// ticket is created.
const sideEffectTimeout = 30 * time.Second

// CreateTicketInput is the caller-facing input for ticket creation
type CreateTicketInput struct {
	Title          string
	Priority       ticket.Priority
	ContractItemID string // encoded ItemRef, empty, or OthersSentinel
	InitialMessage string
}

// UpdateTicketInput carries optional ticket mutations
type UpdateTicketInput struct {
	Title    *string
	Status   *ticket.Status
	Priority *ticket.Priority
}

// OpsNotification is the full ticket context sent to the operational mailbox
type OpsNotification struct {
	TenantID       uuid.UUID
	TenantName     string
	TicketID       uuid.UUID
	Title          string
	Priority       ticket.Priority
	Status         ticket.Status
	CreatorEmail   string
	InitialMessage string
}

// Notifier delivers ticket notifications. Implementations must be safe for
// concurrent use; delivery failures are logged by the service and never
// surfaced to the ticket creator.
type Notifier interface {
	NotifyTicketCreated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error
	NotifyTicketUpdated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error
	NotifyOpsMailbox(ctx context.Context, n OpsNotification) error
}

// ObjectStorage is the slice of object-storage behavior the ticket service
// needs for attachments.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignDownload(ctx context.Context, key string) (string, error)
}

// Service orchestrates ticket creation and the follow-up mutations. It is
// the only mutation path that can consume a contract item's quota.
type Service struct {
	tickets    ticket.Repository
	contracts  contract.Repository
	users      identity.UserRepository
	tenants    identity.TenantRepository
	activities activity.Repository
	limits     *LimitService
	notifier   Notifier
	storage    ObjectStorage
	logger     *zap.Logger

	now func() time.Time
}

// NewService creates a ticket Service
func NewService(
	tickets ticket.Repository,
	contracts contract.Repository,
	users identity.UserRepository,
	tenants identity.TenantRepository,
	activities activity.Repository,
	limits *LimitService,
	notifier Notifier,
	storage ObjectStorage,
	logger *zap.Logger,
) *Service {
	return &Service{
		tickets:    tickets,
		contracts:  contracts,
		users:      users,
		tenants:    tenants,
		activities: activities,
		limits:     limits,
		notifier:   notifier,
		storage:    storage,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTicket validates input, re-checks the contract item limit at commit
// time, persists the ticket (plus optional initial message) atomically and
// dispatches best-effort notifications. Either the ticket and its message
// both exist afterwards, or nothing was written.
func (s *Service) CreateTicket(ctx context.Context, tenantID, userID uuid.UUID, input CreateTicketInput) (*ticket.Ticket, error) {
	var ref *contract.ItemRef
	if input.ContractItemID != "" && input.ContractItemID != OthersSentinel {
		parsed, err := contract.ParseItemRef(input.ContractItemID)
		if err != nil {
			return nil, err
		}
		ref = &parsed
	}

	// Validate everything before touching the store.
	t, err := ticket.NewTicket(tenantID, userID, input.Title, input.Priority, ref)
	if err != nil {
		return nil, err
	}
	var initialMessage *ticket.Message
	if input.InitialMessage != "" {
		initialMessage, err = ticket.NewMessage(t.ID, userID, input.InitialMessage, false)
		if err != nil {
			return nil, err
		}
	}

	if ref == nil {
		if err := s.tickets.Create(ctx, t, initialMessage); err != nil {
			return nil, err
		}
		s.dispatchCreationSideEffects(t, userID, input.InitialMessage)
		return t, nil
	}

	// Authoritative re-check immediately before the write. The UI may have
	// checked at selection time; this one is the gate.
	check, err := s.limits.CheckLimitRef(ctx, tenantID, *ref, s.now())
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, newLimitExceededError(*ref, check.CurrentCount, check.Limit, check.Period)
	}

	if check.Limit <= 0 {
		// Actionable but unenforced item (toggle, unlimited, location, or
		// a limit without a positive value): no quota to guard.
		if err := s.tickets.Create(ctx, t, initialMessage); err != nil {
			return nil, err
		}
	} else {
		// The insert re-counts inside a contract-row lock so concurrent
		// creators cannot overshoot the cap.
		periodStart := contract.PeriodStart(check.Period, s.now())
		count, err := s.tickets.CreateWithinLimit(ctx, t, initialMessage, check.Limit, periodStart)
		if errors.Is(err, shared.ErrLimitExceeded) {
			return nil, newLimitExceededError(*ref, count, check.Limit, check.Period)
		}
		if err != nil {
			return nil, err
		}
	}

	s.dispatchCreationSideEffects(t, userID, input.InitialMessage)
	return t, nil
}

// dispatchCreationSideEffects runs the activity log write and notifications
// in the background. Their failure is logged, never propagated; the ticket
// is already committed.
func (s *Service) dispatchCreationSideEffects(t *ticket.Ticket, userID uuid.UUID, initialMessage string) {
	snapshot := *t
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		entry := activity.NewEntry(snapshot.TenantID, userID, activity.ActionTicketCreated,
			"ticket", snapshot.ID, map[string]interface{}{
				"title":    snapshot.Title,
				"priority": string(snapshot.Priority),
			})
		if err := s.activities.Append(ctx, entry); err != nil {
			s.logger.Warn("Failed to record ticket creation activity",
				zap.String("ticket_id", snapshot.ID.String()), zap.Error(err))
		}

		recipients, err := s.users.FindEmailsByTenant(ctx, snapshot.TenantID, userID)
		if err != nil {
			s.logger.Warn("Failed to resolve notification recipients",
				zap.String("tenant_id", snapshot.TenantID.String()), zap.Error(err))
		} else if len(recipients) > 0 {
			if err := s.notifier.NotifyTicketCreated(ctx, snapshot.TenantID, snapshot.ID, snapshot.Title, recipients); err != nil {
				s.logger.Warn("Failed to send ticket creation notifications",
					zap.String("ticket_id", snapshot.ID.String()), zap.Error(err))
			}
		}

		s.notifyOpsMailbox(ctx, snapshot, userID, initialMessage)
	}()
}

func (s *Service) notifyOpsMailbox(ctx context.Context, t ticket.Ticket, userID uuid.UUID, initialMessage string) {
	tenantName := "Unknown Tenant"
	if tenant, err := s.tenants.FindByID(ctx, t.TenantID); err == nil {
		tenantName = tenant.Name
	}
	creatorEmail := "Unknown"
	if creator, err := s.users.FindByID(ctx, userID); err == nil {
		creatorEmail = creator.Email
	}

	err := s.notifier.NotifyOpsMailbox(ctx, OpsNotification{
		TenantID:       t.TenantID,
		TenantName:     tenantName,
		TicketID:       t.ID,
		Title:          t.Title,
		Priority:       t.Priority,
		Status:         t.Status,
		CreatorEmail:   creatorEmail,
		InitialMessage: initialMessage,
	})
	if err != nil {
		s.logger.Warn("Failed to send ops mailbox notification",
			zap.String("ticket_id", t.ID.String()), zap.Error(err))
	}
}

// GetTicket loads one ticket scoped to a tenant
func (s *Service) GetTicket(ctx context.Context, tenantID, ticketID uuid.UUID) (*ticket.Ticket, error) {
	return s.tickets.FindByIDForTenant(ctx, tenantID, ticketID)
}

// ListTickets lists a tenant's tickets
func (s *Service) ListTickets(ctx context.Context, tenantID uuid.UUID, filter ticket.ListFilter) ([]ticket.Ticket, int64, error) {
	return s.tickets.FindByTenant(ctx, tenantID, filter)
}

// UpdateTicket applies title/status/priority changes, enforcing the status
// machine. The contract item reference is immutable and cannot be updated.
func (s *Service) UpdateTicket(ctx context.Context, tenantID, userID, ticketID uuid.UUID, input UpdateTicketInput) (*ticket.Ticket, error) {
	t, err := s.tickets.FindByIDForTenant(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{}
	if input.Status != nil && *input.Status != t.Status {
		metadata["status_change"] = map[string]string{"from": string(t.Status), "to": string(*input.Status)}
		if err := t.TransitionTo(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil && *input.Priority != t.Priority {
		metadata["priority_change"] = map[string]string{"from": string(t.Priority), "to": string(*input.Priority)}
		if err := t.SetPriority(*input.Priority); err != nil {
			return nil, err
		}
	}
	if input.Title != nil {
		if err := t.Rename(*input.Title); err != nil {
			return nil, err
		}
	}

	if err := s.tickets.Save(ctx, t); err != nil {
		return nil, err
	}

	snapshot := *t
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		if len(metadata) == 0 {
			metadata = nil
		}
		entry := activity.NewEntry(snapshot.TenantID, userID, activity.ActionTicketUpdated,
			"ticket", snapshot.ID, metadata)
		if err := s.activities.Append(ctx, entry); err != nil {
			s.logger.Warn("Failed to record ticket update activity",
				zap.String("ticket_id", snapshot.ID.String()), zap.Error(err))
		}

		if _, changed := metadata["status_change"]; changed {
			recipients, err := s.users.FindEmailsByTenant(ctx, snapshot.TenantID, userID)
			if err == nil && len(recipients) > 0 {
				if err := s.notifier.NotifyTicketUpdated(ctx, snapshot.TenantID, snapshot.ID, snapshot.Title, recipients); err != nil {
					s.logger.Warn("Failed to send ticket update notifications",
						zap.String("ticket_id", snapshot.ID.String()), zap.Error(err))
				}
			}
		}
	}()

	return t, nil
}

// AddMessage appends a message to an existing ticket
func (s *Service) AddMessage(ctx context.Context, tenantID, userID, ticketID uuid.UUID, content string, internalNote bool) (*ticket.Message, error) {
	if _, err := s.tickets.FindByIDForTenant(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}
	m, err := ticket.NewMessage(ticketID, userID, content, internalNote)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns a ticket's conversation, hiding internal notes from
// non-admin callers.
func (s *Service) ListMessages(ctx context.Context, tenantID, ticketID uuid.UUID, includeInternal bool) ([]ticket.Message, error) {
	if _, err := s.tickets.FindByIDForTenant(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}
	return s.tickets.FindMessages(ctx, ticketID, includeInternal)
}

// UploadAttachment stores the file in object storage and records metadata
func (s *Service) UploadAttachment(ctx context.Context, tenantID, userID, ticketID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (*ticket.Attachment, error) {
	if _, err := s.tickets.FindByIDForTenant(ctx, tenantID, ticketID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tenants/%s/tickets/%s/%s-%s", tenantID, ticketID, uuid.NewString(), fileName)
	a, err := ticket.NewAttachment(ticketID, userID, fileName, contentType, size, key)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, key, contentType, body, size); err != nil {
		return nil, err
	}
	if err := s.tickets.AddAttachment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AttachmentDownloadURL returns a presigned URL for an attachment
func (s *Service) AttachmentDownloadURL(ctx context.Context, tenantID, ticketID, attachmentID uuid.UUID) (string, error) {
	if _, err := s.tickets.FindByIDForTenant(ctx, tenantID, ticketID); err != nil {
		return "", err
	}
	a, err := s.tickets.FindAttachment(ctx, ticketID, attachmentID)
	if err != nil {
		return "", err
	}
	return s.storage.PresignDownload(ctx, a.StorageKey)
}
