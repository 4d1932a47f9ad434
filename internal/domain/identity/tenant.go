package identity

import (
	"strings"
	"time"

	"github.com/helpdesk/backend/internal/domain/shared"
)

// TenantStatus represents the lifecycle state of a tenant
type TenantStatus string

const (
	// TenantStatusActive indicates a tenant in good standing
	TenantStatusActive TenantStatus = "active"

	// TenantStatusSuspended indicates a tenant whose access is paused
	TenantStatusSuspended TenantStatus = "suspended"
)

// IsValid returns true if the status is a known value
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended:
		return true
	}
	return false
}

// Tenant is an isolated customer organization. All contracts, tickets and
// users hang off a tenant and are never visible across tenant boundaries.
type Tenant struct {
	shared.BaseAggregateRoot
	Name         string
	Slug         string // URL-safe identifier, unique across tenants
	Status       TenantStatus
	ContactEmail string
}

// NewTenant creates an active tenant
func NewTenant(name, slug, contactEmail string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant slug cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Status:            TenantStatusActive,
		ContactEmail:      contactEmail,
	}, nil
}

// Suspend pauses the tenant
func (t *Tenant) Suspend() {
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
}

// Activate restores a suspended tenant
func (t *Tenant) Activate() {
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
}

// IsActive returns true if the tenant may use the system
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
