package ticket

import (
	"context"
	"io"
	"time"

	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock implementations shared by the service tests in this package

type mockContractRepository struct {
	mock.Mock
}

func (m *mockContractRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*contract.Contract, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *mockContractRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]contract.Contract, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *mockContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type mockTicketRepository struct {
	mock.Mock
}

func (m *mockTicketRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ticket.Ticket, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *mockTicketRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter ticket.ListFilter) ([]ticket.Ticket, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ticket.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket, initialMessage *ticket.Message) error {
	args := m.Called(ctx, t, initialMessage)
	return args.Error(0)
}

func (m *mockTicketRepository) CreateWithinLimit(ctx context.Context, t *ticket.Ticket, initialMessage *ticket.Message, limit int, periodStart time.Time) (int64, error) {
	args := m.Called(ctx, t, initialMessage, limit, periodStart)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTicketRepository) CountByContractItemSince(ctx context.Context, tenantID uuid.UUID, ref contract.ItemRef, periodStart time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, ref, periodStart)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTicketRepository) AddMessage(ctx context.Context, msg *ticket.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockTicketRepository) FindMessages(ctx context.Context, ticketID uuid.UUID, includeInternal bool) ([]ticket.Message, error) {
	args := m.Called(ctx, ticketID, includeInternal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticket.Message), args.Error(1)
}

func (m *mockTicketRepository) AddAttachment(ctx context.Context, a *ticket.Attachment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockTicketRepository) FindAttachment(ctx context.Context, ticketID, attachmentID uuid.UUID) (*ticket.Attachment, error) {
	args := m.Called(ctx, ticketID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Attachment), args.Error(1)
}

func (m *mockTicketRepository) FindAttachments(ctx context.Context, ticketID uuid.UUID) ([]ticket.Attachment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ticket.Attachment), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *mockUserRepository) FindEmailsByTenant(ctx context.Context, tenantID uuid.UUID, exclude uuid.UUID) ([]string, error) {
	args := m.Called(ctx, tenantID, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type mockTenantRepository struct {
	mock.Mock
}

func (m *mockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *mockTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *mockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *mockTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type mockActivityRepository struct {
	mock.Mock
}

func (m *mockActivityRepository) Append(ctx context.Context, e *activity.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockActivityRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]activity.Entry, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]activity.Entry), args.Get(1).(int64), args.Error(2)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyTicketCreated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error {
	args := m.Called(ctx, tenantID, ticketID, title, recipients)
	return args.Error(0)
}

func (m *mockNotifier) NotifyTicketUpdated(ctx context.Context, tenantID, ticketID uuid.UUID, title string, recipients []string) error {
	args := m.Called(ctx, tenantID, ticketID, title, recipients)
	return args.Error(0)
}

func (m *mockNotifier) NotifyOpsMailbox(ctx context.Context, n OpsNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type mockObjectStorage struct {
	mock.Mock
}

func (m *mockObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	args := m.Called(ctx, key, contentType, body, size)
	return args.Error(0)
}

func (m *mockObjectStorage) PresignDownload(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
