package handler

import (
	"context"
	"io"
	"time"

	ticketapp "github.com/helpdesk/backend/internal/application/ticket"
	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/google/uuid"
)

// Hand-rolled fakes for the handler tests. The handlers are wired against
// real application services, so these fakes sit at the repository boundary
// and keep everything in memory.

type fakeTicketRepo struct {
	byID       map[uuid.UUID]*ticket.Ticket
	listResult []ticket.Ticket
	listTotal  int64
	countSince int64
	messages   []ticket.Message
	attachment *ticket.Attachment

	created          []*ticket.Ticket
	createdWithLimit []*ticket.Ticket
	addedMessages    []*ticket.Message
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: make(map[uuid.UUID]*ticket.Ticket)}
}

func (f *fakeTicketRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ticket.Ticket, error) {
	t, ok := f.byID[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (f *fakeTicketRepo) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter ticket.ListFilter) ([]ticket.Ticket, int64, error) {
	return f.listResult, f.listTotal, nil
}

func (f *fakeTicketRepo) Save(ctx context.Context, t *ticket.Ticket) error {
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTicketRepo) Create(ctx context.Context, t *ticket.Ticket, initialMessage *ticket.Message) error {
	f.created = append(f.created, t)
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTicketRepo) CreateWithinLimit(ctx context.Context, t *ticket.Ticket, initialMessage *ticket.Message, limit int, periodStart time.Time) (int64, error) {
	if f.countSince >= int64(limit) {
		return f.countSince, shared.ErrLimitExceeded
	}
	f.createdWithLimit = append(f.createdWithLimit, t)
	f.byID[t.ID] = t
	return f.countSince, nil
}

func (f *fakeTicketRepo) CountByContractItemSince(ctx context.Context, tenantID uuid.UUID, ref contract.ItemRef, periodStart time.Time) (int64, error) {
	return f.countSince, nil
}

func (f *fakeTicketRepo) AddMessage(ctx context.Context, m *ticket.Message) error {
	f.addedMessages = append(f.addedMessages, m)
	return nil
}

func (f *fakeTicketRepo) FindMessages(ctx context.Context, ticketID uuid.UUID, includeInternal bool) ([]ticket.Message, error) {
	if includeInternal {
		return f.messages, nil
	}
	visible := make([]ticket.Message, 0, len(f.messages))
	for _, m := range f.messages {
		if !m.IsInternalNote {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

func (f *fakeTicketRepo) AddAttachment(ctx context.Context, a *ticket.Attachment) error {
	f.attachment = a
	return nil
}

func (f *fakeTicketRepo) FindAttachment(ctx context.Context, ticketID, attachmentID uuid.UUID) (*ticket.Attachment, error) {
	if f.attachment == nil || f.attachment.ID != attachmentID {
		return nil, shared.ErrNotFound
	}
	return f.attachment, nil
}

func (f *fakeTicketRepo) FindAttachments(ctx context.Context, ticketID uuid.UUID) ([]ticket.Attachment, error) {
	if f.attachment == nil {
		return []ticket.Attachment{}, nil
	}
	return []ticket.Attachment{*f.attachment}, nil
}

type fakeContractRepo struct {
	contracts []contract.Contract
	saved     []*contract.Contract
}

func (f *fakeContractRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*contract.Contract, error) {
	for i := range f.contracts {
		if f.contracts[i].ID == id && f.contracts[i].TenantID == tenantID {
			return &f.contracts[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeContractRepo) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]contract.Contract, error) {
	result := make([]contract.Contract, 0)
	for i := range f.contracts {
		if f.contracts[i].TenantID == tenantID {
			result = append(result, f.contracts[i])
		}
	}
	return result, nil
}

func (f *fakeContractRepo) Save(ctx context.Context, c *contract.Contract) error {
	f.saved = append(f.saved, c)
	for i := range f.contracts {
		if f.contracts[i].ID == c.ID {
			f.contracts[i] = *c
			return nil
		}
	}
	f.contracts = append(f.contracts, *c)
	return nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return nil, shared.ErrNotFound
}

func (fakeUserRepo) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]identity.User, error) {
	return []identity.User{}, nil
}

func (fakeUserRepo) FindEmailsByTenant(ctx context.Context, tenantID uuid.UUID, exclude uuid.UUID) ([]string, error) {
	return []string{}, nil
}

func (fakeUserRepo) Save(ctx context.Context, u *identity.User) error { return nil }

type fakeTenantRepo struct{}

func (fakeTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return nil, shared.ErrNotFound
}

func (fakeTenantRepo) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	return nil, shared.ErrNotFound
}

func (fakeTenantRepo) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	return []identity.Tenant{}, nil
}

func (fakeTenantRepo) Save(ctx context.Context, t *identity.Tenant) error { return nil }

type fakeActivityRepo struct{}

func (fakeActivityRepo) Append(ctx context.Context, e *activity.Entry) error { return nil }

func (fakeActivityRepo) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]activity.Entry, int64, error) {
	return []activity.Entry{}, 0, nil
}

type fakeNotifier struct{}

func (fakeNotifier) NotifyTicketCreated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error {
	return nil
}

func (fakeNotifier) NotifyTicketUpdated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error {
	return nil
}

func (fakeNotifier) NotifyOpsMailbox(ctx context.Context, n ticketapp.OpsNotification) error {
	return nil
}

type fakeStorage struct {
	uploads map[string]int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string]int64)}
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	f.uploads[key] = size
	return nil
}

func (f *fakeStorage) PresignDownload(ctx context.Context, key string) (string, error) {
	return "https://storage.example.com/presigned/" + key, nil
}
