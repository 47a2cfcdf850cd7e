package models

import (
	"sort"
	"time"
)

// OutstandingLedger is one customer's outstanding receivables position,
// keyed by customer name, with the open bills underneath it.
type OutstandingLedger struct {
	ID             string    `gorm:"column:id;primaryKey"`
	CustomerName   string    `gorm:"column:customer_name;uniqueIndex"`
	CreditLimit    float64   `gorm:"column:credit_limit"`
	ClosingBalance float64   `gorm:"column:closing_balance"`
	Bills          []Bill    `gorm:"foreignKey:OutstandingLedgerID"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (OutstandingLedger) TableName() string {
	return "outstanding_ledgers"
}

// Bill is an open bill under an outstanding ledger. The remote export resends
// previously-seen bills on every run, so the full composite below is the only
// usable identity.
type Bill struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	OutstandingLedgerID string    `gorm:"column:outstanding_ledger_id;index"`
	TallyOrdID          string    `gorm:"column:tally_ord_id"`
	NxOrderID           string    `gorm:"column:nx_order_id"`
	TallyInvNo          string    `gorm:"column:tally_inv_no"`
	BillDate            string    `gorm:"column:bill_date"`
	OpeningBalance      float64   `gorm:"column:opening_balance"`
	ClosingBalance      float64   `gorm:"column:closing_balance"`
	CreditPeriod        string    `gorm:"column:credit_period"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// BillIdentity is the full composite identity of a bill.
type BillIdentity struct {
	TallyOrdID     string
	NxOrderID      string
	TallyInvNo     string
	BillDate       string
	OpeningBalance float64
	ClosingBalance float64
	CreditPeriod   string
}

func (b Bill) Identity() BillIdentity {
	return BillIdentity{
		TallyOrdID:     b.TallyOrdID,
		NxOrderID:      b.NxOrderID,
		TallyInvNo:     b.TallyInvNo,
		BillDate:       b.BillDate,
		OpeningBalance: b.OpeningBalance,
		ClosingBalance: b.ClosingBalance,
		CreditPeriod:   b.CreditPeriod,
	}
}

func (o OutstandingLedger) NaturalKey() string {
	return o.CustomerName
}

// Projection clears identity and bookkeeping fields and reduces bills to
// their sorted composite identities, so a resent-but-identical child set
// compares equal.
func (o OutstandingLedger) Projection() OutstandingLedger {
	o.ID = ""
	o.CreatedAt = time.Time{}
	o.UpdatedAt = time.Time{}

	bills := make([]Bill, len(o.Bills))
	for i, b := range o.Bills {
		id := b.Identity()
		bills[i] = Bill{
			TallyOrdID:     id.TallyOrdID,
			NxOrderID:      id.NxOrderID,
			TallyInvNo:     id.TallyInvNo,
			BillDate:       id.BillDate,
			OpeningBalance: id.OpeningBalance,
			ClosingBalance: id.ClosingBalance,
			CreditPeriod:   id.CreditPeriod,
		}
	}
	sort.Slice(bills, func(i, j int) bool {
		return billLess(bills[i], bills[j])
	})
	o.Bills = bills
	return o
}

func billLess(a, b Bill) bool {
	if a.TallyOrdID != b.TallyOrdID {
		return a.TallyOrdID < b.TallyOrdID
	}
	if a.TallyInvNo != b.TallyInvNo {
		return a.TallyInvNo < b.TallyInvNo
	}
	if a.NxOrderID != b.NxOrderID {
		return a.NxOrderID < b.NxOrderID
	}
	if a.BillDate != b.BillDate {
		return a.BillDate < b.BillDate
	}
	if a.OpeningBalance != b.OpeningBalance {
		return a.OpeningBalance < b.OpeningBalance
	}
	if a.ClosingBalance != b.ClosingBalance {
		return a.ClosingBalance < b.ClosingBalance
	}
	return a.CreditPeriod < b.CreditPeriod
}
