package auth

import (
	"time"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the opaque token and actor profile produced by a
// successful login.
type LoginResponse struct {
	Username       string         `json:"username"`
	Token          string         `json:"token"`
	Role           enums.UserRole `json:"role"`
	AssignedStores []int64        `json:"assigned_stores,omitempty"`
	ExpiresAt      time.Time      `json:"expires_at"`
}
