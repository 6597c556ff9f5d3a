package models

import "time"

// ProcessedCounter tallies how many ledger rows a user has submitted.
type ProcessedCounter struct {
	Username  string    `gorm:"column:username;type:text;primaryKey"`
	Count     int64     `gorm:"column:count;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
