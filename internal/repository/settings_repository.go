package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rgtechno/tallybridge/internal/models"
)

type SyncControlRepository struct {
	db *gorm.DB
}

func NewSyncControlRepository(db *gorm.DB) *SyncControlRepository {
	return &SyncControlRepository{db: db}
}

// Get retrieves one module's sync gate. A missing row comes back with both
// paths disabled, which is the fail-closed default.
func (r *SyncControlRepository) Get(ctx context.Context, moduleName string) (models.SyncControlSetting, error) {
	var setting models.SyncControlSetting
	err := r.db.WithContext(ctx).Where("module_name = ?", moduleName).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SyncControlSetting{ModuleName: moduleName}, nil
	}
	return setting, err
}

// List retrieves every module gate
func (r *SyncControlRepository) List(ctx context.Context) ([]models.SyncControlSetting, error) {
	var settings []models.SyncControlSetting
	result := r.db.WithContext(ctx).Order("module_name ASC").Find(&settings)
	return settings, result.Error
}

// Upsert writes one module gate, keyed by module name
func (r *SyncControlRepository) Upsert(ctx context.Context, setting models.SyncControlSetting) error {
	if setting.ID == "" {
		setting.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "module_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_auto_sync_enabled", "is_manual_sync_enabled", "updated_at"}),
		}).
		Create(&setting).Error
}

type LedgerNameRepository struct {
	db *gorm.DB
}

func NewLedgerNameRepository(db *gorm.DB) *LedgerNameRepository {
	return &LedgerNameRepository{db: db}
}

// Map loads the ledger-name settings as a name→value lookup
func (r *LedgerNameRepository) Map(ctx context.Context) (map[string]string, error) {
	var settings []models.LedgerNameSetting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Name] = s.Value
	}
	return m, nil
}

// List retrieves every ledger-name setting
func (r *LedgerNameRepository) List(ctx context.Context) ([]models.LedgerNameSetting, error) {
	var settings []models.LedgerNameSetting
	result := r.db.WithContext(ctx).Order("name ASC").Find(&settings)
	return settings, result.Error
}

// Upsert writes one ledger-name mapping, keyed by name
func (r *LedgerNameRepository) Upsert(ctx context.Context, setting models.LedgerNameSetting) error {
	if setting.ID == "" {
		setting.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}
