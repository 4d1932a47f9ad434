package persistence

import (
	"context"

	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/helpdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository implements the activity.Repository interface. The log is
// append-only; there is no update or delete path.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts one activity-log entry
func (r *ActivityRepository) Append(ctx context.Context, e *activity.Entry) error {
	return r.db.WithContext(ctx).Create(models.ActivityModelFromDomain(e)).Error
}

// FindByTenant lists a tenant's activity, newest first, with pagination
func (r *ActivityRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]activity.Entry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ActivityModel{}).
		Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var rows []models.ActivityModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	entries := make([]activity.Entry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, total, nil
}

// Ensure ActivityRepository implements the interface
var _ activity.Repository = (*ActivityRepository)(nil)
