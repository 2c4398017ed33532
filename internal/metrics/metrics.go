package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its own registry so tests can construct independent
// instances without colliding on the default one.
type Metrics struct {
	registry *prometheus.Registry

	Created         *prometheus.CounterVec
	FanOutFailures  prometheus.Counter
	Swept           prometheus.Counter
	StreamClients   prometheus.Gauge
	EventsConsumed  *prometheus.CounterVec
	EventsPublished prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications persisted, by type.",
		}, []string{"type"}),
		FanOutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_fanout_failures_total",
			Help: "Per-recipient failures during fan-out creation.",
		}),
		Swept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_swept_total",
			Help: "Stale notifications flipped to read by the insert-triggered sweep.",
		}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifications_stream_clients",
			Help: "Currently connected SSE clients.",
		}),
		EventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_events_consumed_total",
			Help: "Domain events consumed from the broker, by outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Domain events published to the broker.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Created,
		m.FanOutFailures,
		m.Swept,
		m.StreamClients,
		m.EventsConsumed,
		m.EventsPublished,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
