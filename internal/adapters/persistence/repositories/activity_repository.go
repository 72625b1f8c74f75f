package repositories

import (
	"context"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/pkg/pagination"

	"gorm.io/gorm"
)

// ActivityRepository handles activity log data access
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends one activity record
func (r *ActivityRepository) Create(ctx context.Context, a *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// List returns activity records newest first, optionally filtered by action
func (r *ActivityRepository) List(ctx context.Context, params *pagination.Params, action string) ([]models.ActivityLog, int64, error) {
	var (
		list  []models.ActivityLog
		total int64
	)

	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&list).Error
	return list, total, err
}

// ListByEntity returns the audit trail for one entity
func (r *ActivityRepository) ListByEntity(ctx context.Context, entityTable string, entityID uint) ([]models.ActivityLog, error) {
	var list []models.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("entity_table = ? AND entity_id = ?", entityTable, entityID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
