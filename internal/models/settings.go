package models

import "time"

// Sync module names as the settings UI writes them.
const (
	ModuleProducts        = "Products"
	ModuleStocks          = "Stocks"
	ModuleVendors         = "Vendors"
	ModuleOutstanding     = "Outstanding Amount"
	ModuleLedgerStatement = "Ledger Statement"
	ModuleOrders          = "Orders"
)

// SyncControlSetting gates one module's sync paths. A missing row means both
// paths are disabled.
type SyncControlSetting struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	ModuleName          string    `gorm:"column:module_name;uniqueIndex"`
	IsAutoSyncEnabled   bool      `gorm:"column:is_auto_sync_enabled"`
	IsManualSyncEnabled bool      `gorm:"column:is_manual_sync_enabled"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SyncControlSetting) TableName() string {
	return "sync_control_settings"
}

// Ledger-name setting keys.
const (
	LedgerNameSales      = "Sales"
	LedgerNameDiscount   = "Discount"
	LedgerNameCentral    = "Central Tax Ledger"
	LedgerNameState      = "State Tax Ledger"
	LedgerNameInterstate = "Interstate Tax Ledger"
)

// LedgerNameSetting maps a logical ledger role to the account name used by
// the remote system's books.
type LedgerNameSetting struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (LedgerNameSetting) TableName() string {
	return "ledger_name_settings"
}
