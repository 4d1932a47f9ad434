package contract

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage is the slice of object-storage behavior the contract service
// needs for uploaded PDF documents.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignDownload(ctx context.Context, key string) (string, error)
}

// CreateContractInput is the super-admin input for contract creation
type CreateContractInput struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Items     []contract.Item
}

// UpdateContractInput replaces a contract's mutable fields. Items are always
// replaced wholesale; there is no per-item patch.
type UpdateContractInput struct {
	Title     *string
	StartDate *time.Time
	EndDate   *time.Time
	Items     *[]contract.Item
}

// Service manages contract authoring. Creation is a super-admin action;
// the catalog cache is invalidated on every mutation so ticket forms see
// item changes promptly.
type Service struct {
	contracts  contract.Repository
	activities activity.Repository
	cache      CatalogCache
	storage    ObjectStorage
	logger     *zap.Logger
}

// NewService creates a contract Service. cache may be nil.
func NewService(contracts contract.Repository, activities activity.Repository, cache CatalogCache, storage ObjectStorage, logger *zap.Logger) *Service {
	return &Service{
		contracts:  contracts,
		activities: activities,
		cache:      cache,
		storage:    storage,
		logger:     logger,
	}
}

// ParseItems converts pasted contract text into typed items for preview.
// Pure passthrough to the domain parser; exposed so the UI can show the
// classification before the contract is saved.
func (s *Service) ParseItems(text string) []contract.Item {
	return contract.ParseItems(text)
}

// CreateContract creates a contract for a tenant
func (s *Service) CreateContract(ctx context.Context, tenantID, createdBy uuid.UUID, input CreateContractInput) (*contract.Contract, error) {
	c, err := contract.NewContract(tenantID, createdBy, input.Title, input.StartDate, input.EndDate, input.Items)
	if err != nil {
		return nil, err
	}
	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx, tenantID)
	s.recordActivity(ctx, tenantID, createdBy, activity.ActionContractCreated, c.ID, map[string]interface{}{
		"title": c.Title,
	})
	return c, nil
}

// UpdateContract applies mutations to an existing contract
func (s *Service) UpdateContract(ctx context.Context, tenantID, userID, contractID uuid.UUID, input UpdateContractInput) (*contract.Contract, error) {
	c, err := s.contracts.FindByIDForTenant(ctx, tenantID, contractID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		c.Title = *input.Title
	}
	if input.StartDate != nil {
		c.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		c.EndDate = *input.EndDate
	}
	if input.Items != nil {
		c.ReplaceItems(*input.Items)
	}

	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateCatalog(ctx, tenantID)
	s.recordActivity(ctx, tenantID, userID, activity.ActionContractUpdated, c.ID, map[string]interface{}{
		"title": c.Title,
	})
	return c, nil
}

// ListContracts returns all of a tenant's contracts, newest first
func (s *Service) ListContracts(ctx context.Context, tenantID uuid.UUID) ([]contract.Contract, error) {
	return s.contracts.FindByTenant(ctx, tenantID)
}

// GetContract loads one contract scoped to a tenant
func (s *Service) GetContract(ctx context.Context, tenantID, contractID uuid.UUID) (*contract.Contract, error) {
	return s.contracts.FindByIDForTenant(ctx, tenantID, contractID)
}

// UploadPDF stores the contract's source document and records its location
func (s *Service) UploadPDF(ctx context.Context, tenantID, userID, contractID uuid.UUID, size int64, body io.Reader) (*contract.Contract, error) {
	c, err := s.contracts.FindByIDForTenant(ctx, tenantID, contractID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tenants/%s/contracts/%s/contract.pdf", tenantID, contractID)
	if err := s.storage.Upload(ctx, key, "application/pdf", body, size); err != nil {
		return nil, err
	}

	url, err := s.storage.PresignDownload(ctx, key)
	if err != nil {
		return nil, err
	}
	c.SetPDFURL(url)

	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) invalidateCatalog(ctx context.Context, tenantID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID); err != nil {
		s.logger.Warn("Catalog cache invalidation failed",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}

func (s *Service) recordActivity(ctx context.Context, tenantID, userID uuid.UUID, action activity.ActionType, entityID uuid.UUID, metadata map[string]interface{}) {
	entry := activity.NewEntry(tenantID, userID, action, "contract", entityID, metadata)
	if err := s.activities.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to record contract activity",
			zap.String("contract_id", entityID.String()), zap.Error(err))
	}
}
