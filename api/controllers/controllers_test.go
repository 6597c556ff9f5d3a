package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nurulloasawear/order-app/api/middleware"
	"github.com/nurulloasawear/order-app/internal/auth"
	"github.com/nurulloasawear/order-app/internal/dailyorders"
	"github.com/nurulloasawear/order-app/internal/decisions"
	"github.com/nurulloasawear/order-app/internal/platform"
	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/manifest"
)

type stubAuthService struct {
	resp      *auth.LoginResponse
	err       error
	loggedOut string
}

func (s *stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return s.err
}

type stubDailyService struct {
	row     *models.DailyOrder
	entries []dailyorders.Entry
	err     error

	lastInput dailyorders.SubmitDecisionInput
}

func (s *stubDailyService) SubmitDecision(_ context.Context, input dailyorders.SubmitDecisionInput) (*models.DailyOrder, error) {
	s.lastInput = input
	return s.row, s.err
}

func (s *stubDailyService) ListDaily(_ context.Context, _ int64, _ string, _ enums.UserRole, _ []int64) ([]dailyorders.Entry, error) {
	return s.entries, s.err
}

type stubDecisionsService struct {
	result *decisions.SaveResult
	err    error

	lastActor decisions.Actor
	lastFinal bool
}

func (s *stubDecisionsService) Save(_ context.Context, actor decisions.Actor, _ []decisions.ItemInput, isFinal bool) (*decisions.SaveResult, error) {
	s.lastActor = actor
	s.lastFinal = isFinal
	return s.result, s.err
}

func (s *stubDecisionsService) OldOrders(_ context.Context, _ decisions.Actor) ([]models.Decision, error) {
	return nil, s.err
}

func (s *stubDecisionsService) SupplierQueue(_ context.Context) ([]models.Decision, error) {
	return nil, s.err
}

func (s *stubDecisionsService) AcceptedReturned(_ context.Context, _ int64) ([]models.AuditEntry, error) {
	return nil, s.err
}

func (s *stubDecisionsService) SellerCancelled(_ context.Context, _ int64) ([]models.Decision, error) {
	return nil, s.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any, seed func(*http.Request) *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if seed != nil {
		req = seed(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func asSeller(req *http.Request) *http.Request {
	ctx := middleware.WithActor(req.Context(), "seller1", enums.UserRoleSeller, []int64{101})
	return req.WithContext(ctx)
}

func TestAuthLoginWritesResponse(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{
		Username:  "seller1",
		Token:     "tok",
		Role:      enums.UserRoleSeller,
		ExpiresAt: time.Now().Add(time.Hour),
	}}

	rec := postJSON(t, AuthLogin(svc, nil), "/api/v1/auth/login",
		map[string]string{"username": "seller1", "password": "secret123"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "tok" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthLoginRejectsMissingFields(t *testing.T) {
	rec := postJSON(t, AuthLogin(&stubAuthService{}, nil), "/api/v1/auth/login",
		map[string]string{"username": "seller1"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLogoutRevokesBearerToken(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.loggedOut != "tok-123" {
		t.Fatalf("expected token revoked, got %q", svc.loggedOut)
	}
}

func TestDailyOrderDecisionSeedsActor(t *testing.T) {
	svc := &stubDailyService{row: &models.DailyOrder{OrderID: "ord-1", CampaignID: 101}}
	rec := postJSON(t, DailyOrderDecision(svc, nil), "/api/v1/daily-orders/decision",
		map[string]any{"order_id": "ord-1", "campaign_id": 101, "decision": "yes"}, asSeller)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.Username != "seller1" || svc.lastInput.Role != enums.UserRoleSeller {
		t.Fatalf("actor not seeded: %+v", svc.lastInput)
	}
	if svc.lastInput.Decision != enums.DecisionYes {
		t.Fatalf("unexpected decision: %q", svc.lastInput.Decision)
	}
}

func TestDailyOrderDecisionMapsServiceErrors(t *testing.T) {
	svc := &stubDailyService{err: pkgerrors.New(pkgerrors.CodeForbidden, "campaign is not assigned to this account")}
	rec := postJSON(t, DailyOrderDecision(svc, nil), "/api/v1/daily-orders/decision",
		map[string]any{"order_id": "ord-1", "campaign_id": 101, "decision": "yes"}, asSeller)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDecisionsSavePassesActorAndFinalFlag(t *testing.T) {
	svc := &stubDecisionsService{result: &decisions.SaveResult{Saved: 1}}
	rec := postJSON(t, DecisionsSave(svc, nil), "/api/v1/decisions",
		map[string]any{
			"decisions": []map[string]any{{"order_id": "ord-1", "campaign_id": 101, "decision": "yes"}},
			"is_final":  true,
		}, asSeller)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.lastFinal {
		t.Fatal("is_final not forwarded")
	}
	if svc.lastActor.Username != "seller1" {
		t.Fatalf("actor not seeded: %+v", svc.lastActor)
	}
}

func TestAdminMaintenanceToggleReportsPrevious(t *testing.T) {
	state := &platform.MaintenanceState{}
	rec := postJSON(t, AdminMaintenanceToggle(state, nil), "/api/admin/v1/maintenance",
		map[string]any{"enabled": true, "message": "upgrading"}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !state.Enabled() {
		t.Fatal("maintenance not enabled")
	}

	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["previous"] {
		t.Fatal("previous state should have been false")
	}
}

func TestArtifactDownloadBlocksTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := manifest.NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "picking_2026-01-01_seller1.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	serve := func(name string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/file", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", name)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()
		ArtifactDownload(store, nil).ServeHTTP(rec, req)
		return rec
	}

	if rec := serve("picking_2026-01-01_seller1.pdf"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for stored artifact, got %d", rec.Code)
	}
	if rec := serve("../secret.pdf"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for traversal name, got %d", rec.Code)
	}
	if rec := serve("missing.pdf"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing artifact, got %d", rec.Code)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(_ context.Context) error {
	return context.DeadlineExceeded
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

func TestHealthReadyChecksDependencies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	HealthReady(okPinger{}, okPinger{}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HealthReady(okPinger{}, failingPinger{}, nil).ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Fatal("expected readiness failure when cache is down")
	}
}
