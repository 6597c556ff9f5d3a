package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nurulloasawear/order-app/pkg/db/models"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]models.Session
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]models.Session)}
}

func (m *mockStore) Create(ctx context.Context, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[session.TokenHash] = session
	return nil
}

func (m *mockStore) Find(ctx context.Context, tokenHash string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.data[tokenHash]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *mockStore) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, tokenHash)
	return nil
}

func TestManagerIssueAndResolve(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, ttl: time.Hour}

	ctx := context.Background()
	token, expiresAt, err := manager.Issue(ctx, "seller-ivan")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}
	if _, raw := store.data[token]; raw {
		t.Fatal("raw token must never be stored")
	}
	if _, hashed := store.data[HashToken(token)]; !hashed {
		t.Fatal("expected session stored under token hash")
	}

	username, err := manager.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if username != "seller-ivan" {
		t.Fatalf("unexpected username %q", username)
	}

	if _, err := manager.Resolve(ctx, "no-such-token"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected invalid session error, got %v", err)
	}
}

func TestManagerResolveEvictsExpired(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, ttl: time.Hour}
	ctx := context.Background()

	token := "stale-token"
	hash := HashToken(token)
	store.data[hash] = models.Session{
		TokenHash: hash,
		Username:  "seller-ivan",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}

	if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected invalid session for expired row, got %v", err)
	}
	if _, exists := store.data[hash]; exists {
		t.Fatal("expected expired session row to be evicted on read")
	}
}

func TestManagerRevoke(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, ttl: time.Hour}
	ctx := context.Background()

	token, _, err := manager.Issue(ctx, "supplier-omar")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := manager.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected invalid session after revoke, got %v", err)
	}
}
