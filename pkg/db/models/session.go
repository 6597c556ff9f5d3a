package models

import "time"

// Session stores one opaque login token, keyed by its sha256 hex digest.
// The raw token never touches the database.
type Session struct {
	TokenHash string    `gorm:"column:token_hash;type:text;primaryKey"`
	Username  string    `gorm:"column:username;type:text;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
