package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
)

type stubResolver struct {
	username string
	err      error
}

func (s stubResolver) Resolve(_ context.Context, token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.username, nil
}

type stubActorSource struct {
	user *models.User
	err  error
}

func (s stubActorSource) FindByUsername(_ context.Context, _ string) (*models.User, error) {
	return s.user, s.err
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(stubResolver{username: "ivan"}, stubActorSource{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsUnknownSession(t *testing.T) {
	handler := Auth(stubResolver{err: errors.New("no session")}, stubActorSource{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInactiveUser(t *testing.T) {
	user := &models.User{Username: "ivan", Role: enums.UserRoleSeller, IsActive: false}
	handler := Auth(stubResolver{username: "ivan"}, stubActorSource{user: user}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsActorContext(t *testing.T) {
	user := &models.User{
		Username:       "ivan",
		Role:           enums.UserRoleSeller,
		AssignedStores: []int64{101, 202},
		IsActive:       true,
	}

	var captured struct {
		username string
		role     enums.UserRole
		stores   []int64
	}
	handler := Auth(stubResolver{username: "ivan"}, stubActorSource{user: user}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.username = UsernameFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		captured.stores = AssignedStoresFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.username != "ivan" {
		t.Fatalf("expected username ivan got %s", captured.username)
	}
	if captured.role != enums.UserRoleSeller {
		t.Fatalf("expected seller role got %s", captured.role)
	}
	if len(captured.stores) != 2 || captured.stores[0] != 101 {
		t.Fatalf("expected assigned stores seeded got %v", captured.stores)
	}
}

func TestRequireRoleBlocksMismatch(t *testing.T) {
	handler := RequireRole(nil, enums.UserRoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), "ivan", enums.UserRoleSeller, nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRoleAllowsAnyListed(t *testing.T) {
	handler := RequireRole(nil, enums.UserRoleSeller, enums.UserRoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), "root", enums.UserRoleAdmin, nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
