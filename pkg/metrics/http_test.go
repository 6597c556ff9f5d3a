package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsExportsRequestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("POST", "/api/v1/decisions", 200, 120*time.Millisecond)
	metrics.Observe("POST", "/api/v1/decisions", 422, 40*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "2xx"); err != nil {
		t.Fatalf("fetch 2xx: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one 2xx request, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "4xx"); err != nil {
		t.Fatalf("fetch 4xx: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one 4xx request, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/decisions"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestManifestMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewManifestMetrics(reg)
	metrics.IncRendered("picking")
	metrics.IncFailed("rejection")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "manifest_rendered_total", "kind", "picking"); err != nil {
		t.Fatalf("fetch rendered: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one rendered manifest, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "manifest_render_failures_total", "kind", "rejection"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one failed render, got %f", got)
	}
}
