package contract

import (
	"context"
	"time"

	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogEntry is one selectable contract item, ready for a ticket form.
// Ref is the encoded item reference the ticket will carry.
type CatalogEntry struct {
	Ref           string               `json:"id"`
	Text          string               `json:"text"`
	ContractID    uuid.UUID            `json:"contract_id"`
	ContractTitle string               `json:"contract_title"`
	HasLimit      bool                 `json:"has_limit"`
	LimitValue    int                  `json:"limit_value,omitempty"`
	LimitPeriod   contract.LimitPeriod `json:"limit_period"`
}

// CatalogCache fronts the catalog computation with a short-lived per-tenant
// cache. A nil error with found=false is a miss; cache errors are treated as
// misses by the service.
type CatalogCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) ([]CatalogEntry, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, entries []CatalogEntry) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// CatalogService derives the list of contract items a tenant user may attach
// a new ticket to.
type CatalogService struct {
	contracts contract.Repository
	cache     CatalogCache
	logger    *zap.Logger

	now func() time.Time
}

// NewCatalogService creates a CatalogService. cache may be nil, in which
// case every call recomputes from the store.
func NewCatalogService(contracts contract.Repository, cache CatalogCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		contracts: contracts,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// ListSelectableItems returns every actionable item of the tenant's active
// contracts, in store order (most-recent contract first, then item order).
// A store failure degrades to an empty catalog: the ticket form then only
// offers the "others" option, so ticket creation stays possible.
func (s *CatalogService) ListSelectableItems(ctx context.Context, tenantID uuid.UUID) []CatalogEntry {
	if s.cache != nil {
		if entries, found, err := s.cache.Get(ctx, tenantID); err != nil {
			s.logger.Warn("Catalog cache read failed",
				zap.String("tenant_id", tenantID.String()), zap.Error(err))
		} else if found {
			return entries
		}
	}

	contracts, err := s.contracts.FindByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Warn("Falling back to empty contract item catalog",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return []CatalogEntry{}
	}

	entries := buildCatalog(contracts, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, entries); err != nil {
			s.logger.Warn("Catalog cache write failed",
				zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
	return entries
}

// buildCatalog is the pure derivation from contracts to catalog entries
func buildCatalog(contracts []contract.Contract, now time.Time) []CatalogEntry {
	entries := make([]CatalogEntry, 0)
	for i := range contracts {
		c := &contracts[i]
		if !c.IsActiveOn(now) {
			continue
		}
		for _, item := range c.Summary.Items {
			if !item.Type.IsActionable() || item.Text == "" {
				continue
			}
			ref := contract.ItemRef{ContractID: c.ID, ItemID: item.ID}
			entry := CatalogEntry{
				Ref:           ref.String(),
				Text:          item.Text,
				ContractID:    c.ID,
				ContractTitle: c.Title,
				HasLimit:      item.Type == contract.ItemTypeLimit,
				LimitPeriod:   item.EffectivePeriod(),
			}
			if entry.HasLimit {
				entry.LimitValue = item.Value
			}
			entries = append(entries, entry)
		}
	}
	return entries
}
