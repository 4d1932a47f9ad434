package models

import (
	"time"

	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// TenantModel is the GORM model for tenants
type TenantModel struct {
	AggregateModel
	Name         string `gorm:"type:varchar(255);not null"`
	Slug         string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status       string `gorm:"type:varchar(20);not null;default:'active'"`
	ContactEmail string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for the model
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the model to a domain tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	t := &identity.Tenant{
		Name:         m.Name,
		Slug:         m.Slug,
		Status:       identity.TenantStatus(m.Status),
		ContactEmail: m.ContactEmail,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// TenantModelFromDomain creates a model from a domain tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{
		Name:         t.Name,
		Slug:         t.Slug,
		Status:       string(t.Status),
		ContactEmail: t.ContactEmail,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// UserModel is the GORM model for users
type UserModel struct {
	AggregateModel
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_users_tenant_email,priority:1"`
	Email       string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_email,priority:2"`
	DisplayName string     `gorm:"type:varchar(255)"`
	Role        string     `gorm:"type:varchar(20);not null;default:'tenant_user'"`
	LastSeenAt  *time.Time `gorm:""`
}

// TableName returns the table name for the model
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		TenantID:    m.TenantID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        identity.Role(m.Role),
		LastSeenAt:  m.LastSeenAt,
	}
	m.PopulateAggregateRoot(&u.BaseAggregateRoot)
	return u
}

// UserModelFromDomain creates a model from a domain user
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		LastSeenAt:  u.LastSeenAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
