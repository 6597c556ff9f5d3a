package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
)

type stubGate bool

func (s stubGate) Enabled() bool { return bool(s) }

func TestMaintenanceBlocksNonAdmin(t *testing.T) {
	handler := Maintenance(stubGate(true), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
	req = req.WithContext(WithActor(req.Context(), "ivan", enums.UserRoleSeller, nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusLocked {
		t.Fatalf("expected 423 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeLocked) {
		t.Fatalf("expected code %s got %s", pkgerrors.CodeLocked, payload.Error.Code)
	}
}

func TestMaintenanceAdminsPassThrough(t *testing.T) {
	handler := Maintenance(stubGate(true), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	req = req.WithContext(WithActor(req.Context(), "root", enums.UserRoleAdmin, nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMaintenanceDisabledPassesEveryone(t *testing.T) {
	handler := Maintenance(stubGate(false), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
	req = req.WithContext(WithActor(req.Context(), "ivan", enums.UserRoleSupplier, nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
