package models

import "time"

type SyncLogStatus string

const (
	SyncLogSuccess SyncLogStatus = "success"
	SyncLogFail    SyncLogStatus = "fail"
)

// SyncLog is an append-only audit row, one per completed sync or retry
// attempt.
type SyncLog struct {
	ID        string        `gorm:"column:id;primaryKey"`
	SyncType  string        `gorm:"column:sync_type"`
	Status    SyncLogStatus `gorm:"column:status"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}
