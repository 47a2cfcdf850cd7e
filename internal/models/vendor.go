package models

import "time"

// Vendor is a supplier ledger master pulled from the remote ledger system,
// keyed by display name.
type Vendor struct {
	ID            string    `gorm:"column:id;primaryKey"`
	SlNo          string    `gorm:"column:sl_no"`
	Name          string    `gorm:"column:name;uniqueIndex"`
	Alias         string    `gorm:"column:alias"`
	Active        string    `gorm:"column:active"`
	Parent        string    `gorm:"column:parent"`
	Address       string    `gorm:"column:address"`
	Country       string    `gorm:"column:country"`
	State         string    `gorm:"column:state"`
	Pincode       string    `gorm:"column:pincode"`
	ContactPerson string    `gorm:"column:contact_person"`
	Mobile        string    `gorm:"column:mobile"`
	Email         string    `gorm:"column:email"`
	Pan           string    `gorm:"column:pan"`
	GstType       string    `gorm:"column:gst_type"`
	GstNo         string    `gorm:"column:gst_no"`
	GstDetails    string    `gorm:"column:gst_details"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

func (v Vendor) NaturalKey() string {
	return v.Name
}

func (v Vendor) Projection() Vendor {
	v.ID = ""
	v.CreatedAt = time.Time{}
	v.UpdatedAt = time.Time{}
	return v
}
