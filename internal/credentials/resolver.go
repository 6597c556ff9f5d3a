package credentials

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nurulloasawear/order-app/pkg/db/models"
)

type userSource interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Resolver picks the marketplace api key for an actor: the per-user key when
// present, the configured fallback otherwise.
type Resolver struct {
	users    userSource
	fallback string
}

func NewResolver(users userSource, fallback string) (*Resolver, error) {
	if users == nil {
		return nil, fmt.Errorf("user source required")
	}
	return &Resolver{users: users, fallback: fallback}, nil
}

func (r *Resolver) APIKeyFor(ctx context.Context, username string) (string, error) {
	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.fallback, nil
		}
		return "", err
	}
	if user != nil && user.APIKey != nil && *user.APIKey != "" {
		return *user.APIKey, nil
	}
	return r.fallback, nil
}
