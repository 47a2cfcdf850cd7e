package models

import (
	"sort"
	"time"
)

// LedgerStatement is one party's ledger running statement, keyed by party
// name, with its vouchers underneath.
type LedgerStatement struct {
	ID                string          `gorm:"column:id;primaryKey"`
	Party             string          `gorm:"column:party;uniqueIndex"`
	Alias             string          `gorm:"column:alias"`
	OpeningBalance    float64         `gorm:"column:opening_balance"`
	ClosingBalance    float64         `gorm:"column:closing_balance"`
	TotalDebitAmount  float64         `gorm:"column:total_debit_amount"`
	TotalCreditAmount float64         `gorm:"column:total_credit_amount"`
	Vouchers          []LedgerVoucher `gorm:"foreignKey:LedgerStatementID"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (LedgerStatement) TableName() string {
	return "ledger_statements"
}

// LedgerVoucher is one voucher line of a ledger statement.
type LedgerVoucher struct {
	ID                string    `gorm:"column:id;primaryKey"`
	LedgerStatementID string    `gorm:"column:ledger_statement_id;index"`
	Date              string    `gorm:"column:date"`
	Ledger            string    `gorm:"column:ledger"`
	VoucherType       string    `gorm:"column:voucher_type"`
	VoucherNo         string    `gorm:"column:voucher_no"`
	DebitAmount       float64   `gorm:"column:debit_amount"`
	CreditAmount      float64   `gorm:"column:credit_amount"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (LedgerVoucher) TableName() string {
	return "ledger_vouchers"
}

// VoucherIdentity is the composite identity of a statement voucher.
type VoucherIdentity struct {
	VoucherNo    string
	Date         string
	DebitAmount  float64
	CreditAmount float64
}

func (v LedgerVoucher) Identity() VoucherIdentity {
	return VoucherIdentity{
		VoucherNo:    v.VoucherNo,
		Date:         v.Date,
		DebitAmount:  v.DebitAmount,
		CreditAmount: v.CreditAmount,
	}
}

func (s LedgerStatement) NaturalKey() string {
	return s.Party
}

func (s LedgerStatement) Projection() LedgerStatement {
	s.ID = ""
	s.CreatedAt = time.Time{}
	s.UpdatedAt = time.Time{}

	vouchers := make([]LedgerVoucher, len(s.Vouchers))
	for i, v := range s.Vouchers {
		id := v.Identity()
		vouchers[i] = LedgerVoucher{
			VoucherNo:    id.VoucherNo,
			Date:         id.Date,
			DebitAmount:  id.DebitAmount,
			CreditAmount: id.CreditAmount,
		}
	}
	sort.Slice(vouchers, func(i, j int) bool {
		return voucherLess(vouchers[i], vouchers[j])
	})
	s.Vouchers = vouchers
	return s
}

func voucherLess(a, b LedgerVoucher) bool {
	if a.VoucherNo != b.VoucherNo {
		return a.VoucherNo < b.VoucherNo
	}
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.DebitAmount != b.DebitAmount {
		return a.DebitAmount < b.DebitAmount
	}
	return a.CreditAmount < b.CreditAmount
}
