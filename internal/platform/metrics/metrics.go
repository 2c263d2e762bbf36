package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the playback
// orchestrator.
type Metrics struct {
	registry          *prometheus.Registry
	requestsTotal     prometheus.Counter
	errorsTotal       prometheus.Counter
	frameChangesTotal prometheus.Counter
	transitionsTotal  prometheus.Counter
	playing           prometheus.Gauge
	subscribers       prometheus.Gauge
}

// New creates and registers Prometheus metrics for the orchestrator.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	frameChangesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_frame_changes_total",
		Help: "Total number of frame-change notifications emitted",
	})
	transitionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_transitions_total",
		Help: "Total number of animated transitions requested over HTTP",
	})
	playing := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "playback_playing",
		Help: "Whether playback is active (1) or paused (0)",
	})
	subscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "playback_event_subscribers",
		Help: "Number of connected frame-change event subscribers",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		frameChangesTotal,
		transitionsTotal,
		playing,
		subscribers,
	)

	return &Metrics{
		registry:          registry,
		requestsTotal:     requestsTotal,
		errorsTotal:       errorsTotal,
		frameChangesTotal: frameChangesTotal,
		transitionsTotal:  transitionsTotal,
		playing:           playing,
		subscribers:       subscribers,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncFrameChanges increments the frame-change counter.
func (m *Metrics) IncFrameChanges() {
	m.frameChangesTotal.Inc()
}

// IncTransitions increments the animated-transition counter.
func (m *Metrics) IncTransitions() {
	m.transitionsTotal.Inc()
}

// SetPlaying sets the playing gauge.
func (m *Metrics) SetPlaying(playing bool) {
	if playing {
		m.playing.Set(1)
	} else {
		m.playing.Set(0)
	}
}

// SetSubscribers sets the event-subscriber gauge.
func (m *Metrics) SetSubscribers(n int) {
	m.subscribers.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g.
// the playing flag).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
