package models

import (
	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/google/uuid"
)

// ActivityModel is the GORM model for the append-only activity log
type ActivityModel struct {
	BaseModel
	TenantID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID              `gorm:"type:uuid;not null"`
	ActionType string                 `gorm:"type:varchar(50);not null"`
	EntityType string                 `gorm:"type:varchar(50);not null"`
	EntityID   uuid.UUID              `gorm:"type:uuid;not null"`
	Metadata   map[string]interface{} `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for the model
func (ActivityModel) TableName() string {
	return "activity_log"
}

// ToDomain converts the model to a domain entry
func (m *ActivityModel) ToDomain() *activity.Entry {
	return &activity.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		ActionType: activity.ActionType(m.ActionType),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Metadata:   m.Metadata,
	}
}

// ActivityModelFromDomain creates a model from a domain entry
func ActivityModelFromDomain(e *activity.Entry) *ActivityModel {
	m := &ActivityModel{
		TenantID:   e.TenantID,
		UserID:     e.UserID,
		ActionType: string(e.ActionType),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
