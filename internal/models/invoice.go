package models

import "time"

type PendingInvoiceStatus string

const (
	InvoiceStatusPending PendingInvoiceStatus = "pending"
	InvoiceStatusFailed  PendingInvoiceStatus = "failed"
)

// PendingInvoice exists exactly while an invoice has not been confirmed
// accepted by the remote system. Created on a failed post, deleted by the
// retry runner on confirmed success.
type PendingInvoice struct {
	ID         string               `gorm:"column:id;primaryKey"`
	OrderID    string               `gorm:"column:order_id;index"`
	UserID     string               `gorm:"column:user_id;index"`
	XMLContent string               `gorm:"column:xml_content"`
	Status     PendingInvoiceStatus `gorm:"column:status;index"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (PendingInvoice) TableName() string {
	return "pending_invoices"
}
