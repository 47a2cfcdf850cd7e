package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rgtechno/tallybridge/internal/models"
)

type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// LoadAll retrieves all vendor ledgers
func (r *VendorRepository) LoadAll(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	result := r.db.WithContext(ctx).Find(&vendors)
	return vendors, result.Error
}

// InsertBatch creates vendors not seen before
func (r *VendorRepository) InsertBatch(ctx context.Context, vendors []models.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}
	for i := range vendors {
		if vendors[i].ID == "" {
			vendors[i].ID = uuid.NewString()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&vendors).Error
}

// UpsertBatch rewrites changed vendors, keyed by name
func (r *VendorRepository) UpsertBatch(ctx context.Context, vendors []models.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}
	for i := range vendors {
		if vendors[i].ID == "" {
			vendors[i].ID = uuid.NewString()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sl_no", "alias", "active", "parent", "address", "country", "state",
				"pincode", "contact_person", "mobile", "email", "pan", "gst_type",
				"gst_no", "gst_details", "updated_at",
			}),
		}).
		Create(&vendors).Error
}
