package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurulloasawear/order-app/pkg/db/models"
)

// SessionRepository persists opaque session tokens in the sessions table.
// It satisfies the session manager's Store interface.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs a session store bound to the provided GORM DB.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	return r.db.WithContext(ctx).Create(&session).Error
}

// Find returns nil without error when no row matches; expiry is the
// manager's concern.
func (r *SessionRepository) Find(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&models.Session{}).Error
}
