package middleware

import (
	"context"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

type contextKey string

const (
	ctxUsername       contextKey = "username"
	ctxRole           contextKey = "actor_role"
	ctxAssignedStores contextKey = "assigned_stores"
)

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return ""
}

// AssignedStoresFromContext returns the campaign ids granted to the actor.
// Admins carry a nil slice, meaning unrestricted.
func AssignedStoresFromContext(ctx context.Context) []int64 {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxAssignedStores).([]int64); ok {
		return v
	}
	return nil
}

// WithActor injects the authenticated identity into the context.
func WithActor(ctx context.Context, username string, role enums.UserRole, stores []int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUsername, username)
	ctx = context.WithValue(ctx, ctxRole, role)
	return context.WithValue(ctx, ctxAssignedStores, stores)
}
