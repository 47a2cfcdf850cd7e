package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgtechno/tallybridge/internal/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create stores an order with its item snapshot
func (r *OrderRepository) Create(ctx context.Context, order models.Order) (models.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
	}
	err := r.db.WithContext(ctx).Create(&order).Error
	return order, err
}

// GetWithItems retrieves one order and its items
func (r *OrderRepository) GetWithItems(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MaxOrderNoForYear returns the highest order number carrying the given
// year prefix, or "" when the year has no orders yet
func (r *OrderRepository) MaxOrderNoForYear(ctx context.Context, year int) (string, error) {
	var max string
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_no LIKE ?", fmt.Sprintf("%d-%%", year)).
		Select("COALESCE(MAX(order_no), '')").
		Scan(&max).Error
	return max, err
}

// UpdateStatus transitions an order and stamps the transition time
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case models.OrderStatusCompleted:
		updates["completed_at"] = &now
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = &now
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListByUser retrieves a user's orders, newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	result := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)
	return orders, result.Error
}
