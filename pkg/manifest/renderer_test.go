package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

func TestRenderWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewPDFRenderer(dir, nil)
	if err != nil {
		t.Fatalf("NewPDFRenderer: %v", err)
	}

	items := []Item{
		{ProductName: "Kettle", SKU: "SKU-1", OrderID: "777", Barcode: "4600001", Quantity: 2, Status: "accepted"},
		{ProductName: "Mug", SKU: "SKU-2", OrderID: "778", Quantity: 1, Status: "accepted"},
	}
	name, err := renderer.Render(context.Background(), enums.ManifestKindPicking, items, RenderContext{Date: "2026-08-29", Actor: "seller-ivan"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if name != "picking_2026-08-29_seller-ivan.pdf" {
		t.Fatalf("unexpected artifact name %q", name)
	}

	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("artifact is empty")
	}
}

func TestRenderRejectsUnknownKind(t *testing.T) {
	renderer, err := NewPDFRenderer(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewPDFRenderer: %v", err)
	}
	if _, err := renderer.Render(context.Background(), enums.ManifestKind("bogus"), nil, RenderContext{}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestArtifactNameSanitizesParts(t *testing.T) {
	name := ArtifactName(enums.ManifestKindRejection, RenderContext{Date: "2026/08/29", Actor: "../etc"})
	if name != "rejection_2026-08-29_---etc.pdf" {
		t.Fatalf("unexpected sanitized name %q", name)
	}
}

func TestStorePathRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "ok.pdf"), []byte("pdf"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if _, err := store.Path("ok.pdf"); err != nil {
		t.Fatalf("expected existing artifact to resolve: %v", err)
	}
	for _, bad := range []string{"../secret", "a/b.pdf", "", "."} {
		if _, err := store.Path(bad); err == nil {
			t.Fatalf("expected rejection for %q", bad)
		}
	}
	if _, err := store.Path("missing.pdf"); err == nil {
		t.Fatal("expected rejection for missing artifact")
	}
}

func TestSweepOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	stale := filepath.Join(dir, "stale.pdf")
	fresh := filepath.Join(dir, "fresh.pdf")
	for _, path := range []string{stale, fresh} {
		if err := os.WriteFile(path, []byte("pdf"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}
	}
	old := time.Now().Add(-73 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := store.SweepOlderThan(context.Background(), 72*time.Hour)
	if err != nil {
		t.Fatalf("SweepOlderThan: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale artifact should be gone")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh artifact should remain: %v", err)
	}
}
