package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rgtechno/tallybridge/internal/models"
)

type StockLevelRepository struct {
	db *gorm.DB
}

func NewStockLevelRepository(db *gorm.DB) *StockLevelRepository {
	return &StockLevelRepository{db: db}
}

// LoadAll retrieves all stock levels
func (r *StockLevelRepository) LoadAll(ctx context.Context) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	result := r.db.WithContext(ctx).Find(&levels)
	return levels, result.Error
}

// InsertBatch creates stock levels for items not seen before
func (r *StockLevelRepository) InsertBatch(ctx context.Context, levels []models.StockLevel) error {
	if len(levels) == 0 {
		return nil
	}
	for i := range levels {
		if levels[i].ID == "" {
			levels[i].ID = uuid.NewString()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "item_name"}}, DoNothing: true}).
		Create(&levels).Error
}

// UpsertBatch rewrites changed stock levels, keyed by item name
func (r *StockLevelRepository) UpsertBatch(ctx context.Context, levels []models.StockLevel) error {
	if len(levels) == 0 {
		return nil
	}
	for i := range levels {
		if levels[i].ID == "" {
			levels[i].ID = uuid.NewString()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"item_group", "sub_group1", "sub_group2", "quantity", "updated_at",
			}),
		}).
		Create(&levels).Error
}
