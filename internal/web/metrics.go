package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/times/internal/ir"
)

const namespace = "times"

// Metrics holds the Prometheus collectors of the server.
type Metrics struct {
	registry *prometheus.Registry

	actionsDispatched *prometheus.CounterVec
	pageRenders       *prometheus.CounterVec
	renderErrors      *prometheus.CounterVec
}

// NewMetrics registers the collectors on registry. A nil registry creates
// a fresh one.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		actionsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_dispatched_total",
			Help:      "Actions dispatched to the state store, by type.",
		}, []string{"type"}),
		pageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Pages rendered, by route.",
		}, []string{"route"}),
		renderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Page renders that failed, by route.",
		}, []string{"route"}),
	}
	for _, c := range []prometheus.Collector{m.actionsDispatched, m.pageRenders, m.renderErrors} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Record counts a dispatched action. It implements state.Recorder.
func (m *Metrics) Record(a ir.Action) error {
	m.actionsDispatched.WithLabelValues(string(a.Type)).Inc()
	return nil
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) rendered(route string) {
	m.pageRenders.WithLabelValues(route).Inc()
}

func (m *Metrics) failed(route string) {
	m.renderErrors.WithLabelValues(route).Inc()
}
