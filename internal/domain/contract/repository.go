package contract

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for contracts.
// List results are ordered most-recent-first; the catalog and usage
// aggregation both rely on that ordering.
type Repository interface {
	// FindByIDForTenant loads one contract scoped to a tenant. Returns
	// shared.ErrNotFound when the contract is missing or belongs to a
	// different tenant.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Contract, error)

	// FindByTenant returns all of a tenant's contracts, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Contract, error)

	// Save creates or updates a contract, replacing the item summary wholesale
	Save(ctx context.Context, c *Contract) error
}
