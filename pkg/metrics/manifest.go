package metrics

import "github.com/prometheus/client_golang/prometheus"

// ManifestMetrics tracks best-effort manifest rendering outcomes.
type ManifestMetrics struct {
	rendered *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewManifestMetrics registers the manifest metrics on the provided registerer.
func NewManifestMetrics(reg prometheus.Registerer) *ManifestMetrics {
	if reg == nil {
		return &ManifestMetrics{}
	}
	rendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "manifest_rendered_total",
		Help: "Successfully rendered manifests.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "manifest_render_failures_total",
		Help: "Manifest render attempts that failed after commit.",
	}, []string{"kind"})
	reg.MustRegister(rendered, failed)
	return &ManifestMetrics{rendered: rendered, failed: failed}
}

// IncRendered counts one successful render for the kind.
func (m *ManifestMetrics) IncRendered(kind string) {
	if m == nil || m.rendered == nil {
		return
	}
	m.rendered.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFailed counts one failed render for the kind.
func (m *ManifestMetrics) IncFailed(kind string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(kind)).Inc()
}
