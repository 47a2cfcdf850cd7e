package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgtechno/tallybridge/internal/models"
)

type SyncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Append records one automatic run's outcome
func (r *SyncLogRepository) Append(ctx context.Context, syncType string, status models.SyncLogStatus) error {
	log := models.SyncLog{
		ID:       uuid.NewString(),
		SyncType: syncType,
		Status:   status,
	}
	return r.db.WithContext(ctx).Create(&log).Error
}

// List retrieves the log, newest first
func (r *SyncLogRepository) List(ctx context.Context) ([]models.SyncLog, error) {
	var logs []models.SyncLog
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&logs)
	return logs, result.Error
}

// DeleteAll clears the log
func (r *SyncLogRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.SyncLog{}).Error
}
