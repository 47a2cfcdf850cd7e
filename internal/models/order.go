package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order carries only the fields the invoice render needs; the wider
// storefront owns the rest of the order lifecycle.
type Order struct {
	ID            string      `gorm:"column:id;primaryKey"`
	OrderNo       string      `gorm:"column:order_no;uniqueIndex"`
	UserID        string      `gorm:"column:user_id;index"`
	CustomerName  string      `gorm:"column:customer_name"`
	CustomerEmail string      `gorm:"column:customer_email"`
	CustomerGstNo string      `gorm:"column:customer_gst_no"`
	ShipStreet    string      `gorm:"column:ship_street"`
	ShipState     string      `gorm:"column:ship_state"`
	ShipCountry   string      `gorm:"column:ship_country"`
	ShipPincode   string      `gorm:"column:ship_pincode"`
	TotalPrice    float64     `gorm:"column:total_price"`
	Discount      float64     `gorm:"column:discount"`
	Status        OrderStatus `gorm:"column:status;index"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"column:updated_at;autoUpdateTime"`
	CompletedAt   *time.Time  `gorm:"column:completed_at"`
	CancelledAt   *time.Time  `gorm:"column:cancelled_at"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the sold item at order time; the item master may drift
// on later syncs.
type OrderItem struct {
	ID           string    `gorm:"column:id;primaryKey"`
	OrderID      string    `gorm:"column:order_id;index"`
	ItemID       string    `gorm:"column:item_id"`
	ItemName     string    `gorm:"column:item_name"`
	Quantity     int       `gorm:"column:quantity"`
	SellingPrice float64   `gorm:"column:selling_price"`
	GstRate      float64   `gorm:"column:gst_rate"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}
