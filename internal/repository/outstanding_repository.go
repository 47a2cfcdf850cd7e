package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgtechno/tallybridge/internal/models"
)

type OutstandingRepository struct {
	db *gorm.DB
}

func NewOutstandingRepository(db *gorm.DB) *OutstandingRepository {
	return &OutstandingRepository{db: db}
}

// LoadAll retrieves all outstanding ledgers with their bills
func (r *OutstandingRepository) LoadAll(ctx context.Context) ([]models.OutstandingLedger, error) {
	var ledgers []models.OutstandingLedger
	result := r.db.WithContext(ctx).Preload("Bills").Find(&ledgers)
	return ledgers, result.Error
}

// GetByCustomer retrieves one customer's outstanding position with its bills
func (r *OutstandingRepository) GetByCustomer(ctx context.Context, customerName string) (*models.OutstandingLedger, error) {
	var ledger models.OutstandingLedger
	err := r.db.WithContext(ctx).Preload("Bills").
		Where("customer_name = ?", customerName).
		First(&ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// InsertBatch creates new outstanding ledgers with their bills
func (r *OutstandingRepository) InsertBatch(ctx context.Context, ledgers []models.OutstandingLedger) error {
	for i := range ledgers {
		if ledgers[i].ID == "" {
			ledgers[i].ID = uuid.NewString()
		}
		for j := range ledgers[i].Bills {
			ledgers[i].Bills[j].ID = uuid.NewString()
			ledgers[i].Bills[j].OutstandingLedgerID = ledgers[i].ID
		}
	}
	if len(ledgers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ledgers).Error
}

// UpsertBatch rewrites changed ledgers keyed by customer name. Bills are only
// ever added: the remote export resends old bills on every run, so an
// incoming bill is inserted only when its full composite identity is new.
func (r *OutstandingRepository) UpsertBatch(ctx context.Context, ledgers []models.OutstandingLedger) error {
	for _, ledger := range ledgers {
		if err := r.upsertOne(ctx, ledger); err != nil {
			return err
		}
	}
	return nil
}

func (r *OutstandingRepository) upsertOne(ctx context.Context, ledger models.OutstandingLedger) error {
	var existing models.OutstandingLedger
	err := r.db.WithContext(ctx).Preload("Bills").
		Where("customer_name = ?", ledger.CustomerName).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.InsertBatch(ctx, []models.OutstandingLedger{ledger})
	}
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Model(&models.OutstandingLedger{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"credit_limit":    ledger.CreditLimit,
			"closing_balance": ledger.ClosingBalance,
		}).Error
	if err != nil {
		return err
	}

	seen := make(map[models.BillIdentity]bool, len(existing.Bills))
	for _, b := range existing.Bills {
		seen[b.Identity()] = true
	}

	var fresh []models.Bill
	for _, b := range ledger.Bills {
		if seen[b.Identity()] {
			continue
		}
		seen[b.Identity()] = true
		b.ID = uuid.NewString()
		b.OutstandingLedgerID = existing.ID
		fresh = append(fresh, b)
	}
	if len(fresh) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&fresh).Error
}
