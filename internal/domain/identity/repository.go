package identity

import (
	"context"

	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRepository defines persistence operations for tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]User, error)
	// FindEmailsByTenant returns the email addresses of all tenant members,
	// excluding the given user. Used for ticket notifications.
	FindEmailsByTenant(ctx context.Context, tenantID uuid.UUID, exclude uuid.UUID) ([]string, error)
	Save(ctx context.Context, user *User) error
}
