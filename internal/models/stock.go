package models

import "time"

// StockLevel mirrors one row of the remote stock summary report. Quantity is
// kept as the remote system renders it (a decimal string) rather than being
// re-interpreted locally.
type StockLevel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ItemName  string    `gorm:"column:item_name;uniqueIndex"`
	Group     string    `gorm:"column:item_group"`
	SubGroup1 string    `gorm:"column:sub_group1"`
	SubGroup2 string    `gorm:"column:sub_group2"`
	Quantity  string    `gorm:"column:quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

func (s StockLevel) NaturalKey() string {
	return s.ItemName
}

func (s StockLevel) Projection() StockLevel {
	s.ID = ""
	s.CreatedAt = time.Time{}
	s.UpdatedAt = time.Time{}
	return s
}
