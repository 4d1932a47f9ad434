package contract

import (
	"context"
	"io"

	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/shared"
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

type mockCatalogCache struct {
	mock.Mock
}

func (m *mockCatalogCache) Get(ctx context.Context, tenantID uuid.UUID) ([]CatalogEntry, bool, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]CatalogEntry), args.Bool(1), args.Error(2)
}

func (m *mockCatalogCache) Set(ctx context.Context, tenantID uuid.UUID, entries []CatalogEntry) error {
	args := m.Called(ctx, tenantID, entries)
	return args.Error(0)
}

func (m *mockCatalogCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
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
