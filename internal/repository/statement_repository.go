package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgtechno/tallybridge/internal/models"
)

type StatementRepository struct {
	db *gorm.DB
}

func NewStatementRepository(db *gorm.DB) *StatementRepository {
	return &StatementRepository{db: db}
}

// LoadAll retrieves all ledger statements with their vouchers
func (r *StatementRepository) LoadAll(ctx context.Context) ([]models.LedgerStatement, error) {
	var statements []models.LedgerStatement
	result := r.db.WithContext(ctx).Preload("Vouchers").Find(&statements)
	return statements, result.Error
}

// GetByParty retrieves one party's statement with its vouchers
func (r *StatementRepository) GetByParty(ctx context.Context, party string) (*models.LedgerStatement, error) {
	var statement models.LedgerStatement
	err := r.db.WithContext(ctx).Preload("Vouchers").
		Where("party = ?", party).
		First(&statement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

// InsertBatch creates new statements with their vouchers
func (r *StatementRepository) InsertBatch(ctx context.Context, statements []models.LedgerStatement) error {
	for i := range statements {
		if statements[i].ID == "" {
			statements[i].ID = uuid.NewString()
		}
		for j := range statements[i].Vouchers {
			statements[i].Vouchers[j].ID = uuid.NewString()
			statements[i].Vouchers[j].LedgerStatementID = statements[i].ID
		}
	}
	if len(statements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&statements).Error
}

// UpsertBatch rewrites changed statements keyed by party. Vouchers follow the
// same add-only rule as bills: one is inserted only when its composite
// identity has not been stored before.
func (r *StatementRepository) UpsertBatch(ctx context.Context, statements []models.LedgerStatement) error {
	for _, statement := range statements {
		if err := r.upsertOne(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (r *StatementRepository) upsertOne(ctx context.Context, statement models.LedgerStatement) error {
	var existing models.LedgerStatement
	err := r.db.WithContext(ctx).Preload("Vouchers").
		Where("party = ?", statement.Party).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.InsertBatch(ctx, []models.LedgerStatement{statement})
	}
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Model(&models.LedgerStatement{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"alias":               statement.Alias,
			"opening_balance":     statement.OpeningBalance,
			"closing_balance":     statement.ClosingBalance,
			"total_debit_amount":  statement.TotalDebitAmount,
			"total_credit_amount": statement.TotalCreditAmount,
		}).Error
	if err != nil {
		return err
	}

	seen := make(map[models.VoucherIdentity]bool, len(existing.Vouchers))
	for _, v := range existing.Vouchers {
		seen[v.Identity()] = true
	}

	var fresh []models.LedgerVoucher
	for _, v := range statement.Vouchers {
		if seen[v.Identity()] {
			continue
		}
		seen[v.Identity()] = true
		v.ID = uuid.NewString()
		v.LedgerStatementID = existing.ID
		fresh = append(fresh, v)
	}
	if len(fresh) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&fresh).Error
}
