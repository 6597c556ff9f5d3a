package users

import (
	"time"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
)

// CreateUserInput holds the fields an admin supplies for a new account.
type CreateUserInput struct {
	Username       string
	Password       string
	Role           enums.UserRole
	APIKey         *string
	AssignedStores []int64
}

// UpdateUserInput carries optional field changes; nil means untouched.
type UpdateUserInput struct {
	Password       *string
	Role           *enums.UserRole
	APIKey         *string
	AssignedStores *[]int64
	IsActive       *bool
}

// UserView is the admin listing row, counters included.
type UserView struct {
	Username       string         `json:"username"`
	Role           enums.UserRole `json:"role"`
	AssignedStores []int64        `json:"assigned_stores,omitempty"`
	IsActive       bool           `json:"is_active"`
	Processed      int64          `json:"processed"`
	LastLoginAt    *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func toView(user models.User, processed int64) UserView {
	return UserView{
		Username:       user.Username,
		Role:           user.Role,
		AssignedStores: user.AssignedStores,
		IsActive:       user.IsActive,
		Processed:      processed,
		LastLoginAt:    user.LastLoginAt,
		CreatedAt:      user.CreatedAt,
	}
}
