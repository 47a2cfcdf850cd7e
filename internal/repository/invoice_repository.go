package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgtechno/tallybridge/internal/models"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create stores a pending invoice with its exact rendered payload
func (r *InvoiceRepository) Create(ctx context.Context, invoice models.PendingInvoice) (models.PendingInvoice, error) {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusPending
	}
	err := r.db.WithContext(ctx).Create(&invoice).Error
	return invoice, err
}

// ListPending retrieves one user's queued invoices, oldest first
func (r *InvoiceRepository) ListPending(ctx context.Context, userID string) ([]models.PendingInvoice, error) {
	var invoices []models.PendingInvoice
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.InvoiceStatusPending).
		Order("created_at ASC").
		Find(&invoices)
	return invoices, result.Error
}

// ListAllPending retrieves every queued invoice, oldest first
func (r *InvoiceRepository) ListAllPending(ctx context.Context) ([]models.PendingInvoice, error) {
	var invoices []models.PendingInvoice
	result := r.db.WithContext(ctx).
		Where("status = ?", models.InvoiceStatusPending).
		Order("created_at ASC").
		Find(&invoices)
	return invoices, result.Error
}

// Delete removes a queued invoice after a successful replay
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.PendingInvoice{}, "id = ?", id).Error
}

// UpdateStatus marks a queued invoice
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status models.PendingInvoiceStatus) error {
	return r.db.WithContext(ctx).Model(&models.PendingInvoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}
