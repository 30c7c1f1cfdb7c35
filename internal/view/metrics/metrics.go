package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ViewsResolved *prometheus.CounterVec
	ViewFallbacks *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ViewsResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aduan_views_resolved_total",
			Help: "Total number of navigation requests resolved, by session tier",
		}, []string{"tier"}),
		ViewFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aduan_view_fallbacks_total",
			Help: "Total number of navigation requests silently redirected to a fallback view, by session tier",
		}, []string{"tier"}),
	}
}

func (m *Metrics) IncrementResolved(tier string) {
	m.ViewsResolved.WithLabelValues(tier).Inc()
}

func (m *Metrics) IncrementFallbacks(tier string) {
	m.ViewFallbacks.WithLabelValues(tier).Inc()
}
