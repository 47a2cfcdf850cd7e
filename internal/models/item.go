package models

import "time"

// Item is a stock item master record pulled from the remote ledger system.
// The remote system exposes no surrogate id, so ItemName is the natural key.
type Item struct {
	ID                string    `gorm:"column:id;primaryKey"`
	ItemName          string    `gorm:"column:item_name;uniqueIndex"`
	Alias             string    `gorm:"column:alias"`
	PartNo            string    `gorm:"column:part_no"`
	Description       string    `gorm:"column:description"`
	Group             string    `gorm:"column:item_group"`
	SubGroup1         string    `gorm:"column:sub_group1"`
	SubGroup2         string    `gorm:"column:sub_group2"`
	StdPkg            int       `gorm:"column:std_pkg"`
	StdWeight         int       `gorm:"column:std_weight"`
	BaseUnit          string    `gorm:"column:base_unit"`
	AlternateUnit     string    `gorm:"column:alternate_unit"`
	Conversion        string    `gorm:"column:conversion"`
	Denominator       int       `gorm:"column:denominator"`
	SellingPriceDate  string    `gorm:"column:selling_price_date"`
	SellingPrice      float64   `gorm:"column:selling_price"`
	GstApplicable     string    `gorm:"column:gst_applicable"`
	GstApplicableDate string    `gorm:"column:gst_applicable_date"`
	Taxability        string    `gorm:"column:taxability"`
	GstRate           float64   `gorm:"column:gst_rate"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Item) TableName() string {
	return "items"
}

func (i Item) NaturalKey() string {
	return i.ItemName
}

// Projection returns a copy with identity and bookkeeping fields cleared,
// so change detection covers every business field by construction.
func (i Item) Projection() Item {
	i.ID = ""
	i.CreatedAt = time.Time{}
	i.UpdatedAt = time.Time{}
	return i
}
