package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/repository"
	"github.com/rgtechno/tallybridge/internal/tally"
)

// NewOrderItem is one line of an incoming order.
type NewOrderItem struct {
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required"`
	SellingPrice float64 `json:"selling_price"`
	GstRate      float64 `json:"gst_rate"`
}

// NewOrder is an incoming order before numbering.
type NewOrder struct {
	UserID        string         `json:"user_id" binding:"required"`
	CustomerName  string         `json:"customer_name" binding:"required"`
	CustomerEmail string         `json:"customer_email"`
	CustomerGstNo string         `json:"customer_gst_no"`
	ShipStreet    string         `json:"ship_street"`
	ShipState     string         `json:"ship_state" binding:"required"`
	ShipCountry   string         `json:"ship_country"`
	ShipPincode   string         `json:"ship_pincode"`
	TotalPrice    float64        `json:"total_price"`
	Discount      float64        `json:"discount"`
	Items         []NewOrderItem `json:"items" binding:"required,dive"`
}

// OrderService owns order numbering and finalization.
type OrderService struct {
	orders   *repository.OrderRepository
	pipeline *Pipeline
	log      *logrus.Logger
}

func NewOrderService(orders *repository.OrderRepository, pipeline *Pipeline, log *logrus.Logger) *OrderService {
	return &OrderService{orders: orders, pipeline: pipeline, log: log}
}

// CreateOrder assigns the next order number for the current year and stores
// the order with its item snapshot.
func (s *OrderService) CreateOrder(ctx context.Context, req NewOrder) (models.Order, error) {
	year := time.Now().Year()
	max, err := s.orders.MaxOrderNoForYear(ctx, year)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		OrderNo:       tally.NextOrderNumber(year, max),
		UserID:        req.UserID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerGstNo: req.CustomerGstNo,
		ShipStreet:    req.ShipStreet,
		ShipState:     req.ShipState,
		ShipCountry:   req.ShipCountry,
		ShipPincode:   req.ShipPincode,
		TotalPrice:    req.TotalPrice,
		Discount:      req.Discount,
		Status:        models.OrderStatusPending,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ItemID:       item.ItemID,
			ItemName:     item.ItemName,
			Quantity:     item.Quantity,
			SellingPrice: item.SellingPrice,
			GstRate:      item.GstRate,
		})
	}
	return s.orders.Create(ctx, order)
}

// FinalizeOrder completes an order and posts its invoice. A failed post
// leaves the order completed; the payload is already queued for replay.
func (s *OrderService) FinalizeOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %s not found", orderID)
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, models.OrderStatusCompleted); err != nil {
		return nil, err
	}

	if err := s.pipeline.PostOrderInvoice(ctx, order.ID); err != nil {
		s.log.WithFields(logrus.Fields{
			"order_no": order.OrderNo,
		}).WithError(err).Warn("order finalized with invoice queued")
	}

	return s.orders.GetWithItems(ctx, order.ID)
}

// GetOrder retrieves one order with its items.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.orders.GetWithItems(ctx, orderID)
}

// ListOrders retrieves a user's orders.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
