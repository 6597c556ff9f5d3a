package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurulloasawear/order-app/pkg/config"
	"github.com/nurulloasawear/order-app/pkg/db/models"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Store is the persistence surface the manager needs. Implementations keep
// only token hashes; the raw token exists in the client and in transit.
type Store interface {
	Create(ctx context.Context, session models.Session) error
	Find(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, tokenHash string) error
}

// Manager issues, resolves, and revokes opaque login tokens.
type Manager struct {
	store Store
	ttl   time.Duration
}

// Resolver exposes the read-only surface needed by middleware.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// NewManager constructs a session manager backed by the sessions table.
func NewManager(store Store, cfg config.SessionConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Issue creates a fresh token for the given username and stores its hash.
func (m *Manager) Issue(ctx context.Context, username string) (string, time.Time, error) {
	if strings.TrimSpace(username) == "" {
		return "", time.Time{}, fmt.Errorf("username is required")
	}
	token := uuid.NewString()
	expiresAt := time.Now().UTC().Add(m.ttl)
	record := models.Session{
		TokenHash: HashToken(token),
		Username:  username,
		ExpiresAt: expiresAt,
	}
	if err := m.store.Create(ctx, record); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Resolve maps a raw token back to its username. Expired rows are evicted
// on read and reported as invalid.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrInvalidSession
	}
	hash := HashToken(token)
	record, err := m.store.Find(ctx, hash)
	if err != nil {
		return "", err
	}
	if record == nil {
		return "", ErrInvalidSession
	}
	if !record.ExpiresAt.After(time.Now().UTC()) {
		_ = m.store.Delete(ctx, hash)
		return "", ErrInvalidSession
	}
	return record.Username, nil
}

// Revoke deletes the session row for the provided raw token.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidSession
	}
	return m.store.Delete(ctx, HashToken(token))
}

// HashToken returns the hex sha256 digest stored in place of raw tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
