package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rgtechno/tallybridge/internal/models"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// LoadAll retrieves the full item master
func (r *ItemRepository) LoadAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	result := r.db.WithContext(ctx).Find(&items)
	return items, result.Error
}

// InsertBatch creates items not seen before; a concurrent duplicate on the
// natural key is skipped rather than failed
func (r *ItemRepository) InsertBatch(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "item_name"}}, DoNothing: true}).
		Create(&items).Error
}

// UpsertBatch rewrites changed items in place, keyed by item name
func (r *ItemRepository) UpsertBatch(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"alias", "part_no", "description", "item_group", "sub_group1", "sub_group2",
				"std_pkg", "std_weight", "base_unit", "alternate_unit", "conversion",
				"denominator", "selling_price_date", "selling_price", "gst_applicable",
				"gst_applicable_date", "taxability", "gst_rate", "updated_at",
			}),
		}).
		Create(&items).Error
}

// GetByName retrieves one item from the master
func (r *ItemRepository) GetByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Where("item_name = ?", name).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
