package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

// User is a workflow account. Sellers carry the campaign ids they may act
// on; the per-user api_key authenticates marketplace calls made on their
// behalf.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username       string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	Role           enums.UserRole `gorm:"column:role;type:text;not null"`
	APIKey         *string        `gorm:"column:api_key"`
	AssignedStores []int64        `gorm:"column:assigned_stores;type:jsonb;serializer:json"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt    *time.Time     `gorm:"column:last_login_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
