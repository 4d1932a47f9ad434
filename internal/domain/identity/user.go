package identity

import (
	"strings"
	"time"

	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role represents the authorization level of a user within the system.
// Authentication itself is delegated to an external identity provider;
// the backend only consumes the role claim from verified tokens.
type Role string

const (
	// RoleSuperAdmin may manage every tenant, including contract authoring
	RoleSuperAdmin Role = "super_admin"

	// RoleTenantAdmin may manage users and view internal notes within one tenant
	RoleTenantAdmin Role = "tenant_admin"

	// RoleTenantUser may create tickets and view their tenant's data
	RoleTenantUser Role = "tenant_user"
)

// IsValid returns true if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleTenantUser:
		return true
	}
	return false
}

// IsAdmin returns true for roles with administrative visibility
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleTenantAdmin
}

// User is a member of a tenant
type User struct {
	shared.BaseAggregateRoot
	TenantID    uuid.UUID
	Email       string
	DisplayName string
	Role        Role
	LastSeenAt  *time.Time
}

// NewUser creates a user within a tenant
func NewUser(tenantID uuid.UUID, email, displayName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_USER", "A valid email address is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER", "Unknown role")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		Email:             email,
		DisplayName:       displayName,
		Role:              role,
	}, nil
}

// TouchLastSeen records activity for the user
func (u *User) TouchLastSeen() {
	now := time.Now()
	u.LastSeenAt = &now
	u.UpdatedAt = now
}
