// Package monitor exposes prometheus metrics for maze traversal activity
// and the network transports.
package monitor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the game reports
type Metrics struct {
	ExitsChosen     prometheus.Counter
	InvalidChoices  prometheus.Counter
	Restarts        prometheus.Counter
	MazesCompleted  prometheus.Counter
	Watchers        prometheus.Gauge
	RequestLatency  *prometheus.HistogramVec
	SessionMoves    prometheus.Gauge
	SessionFinished prometheus.Gauge
}

// Monitor owns a private registry so several instances can coexist in one
// process (tests start many servers).
type Monitor struct {
	metrics   *Metrics
	registry  *prometheus.Registry
	startTime time.Time
}

// NewMetrics creates the collectors under namespace without registering them
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ExitsChosen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exits_chosen_total",
			Help:      "Total number of successful exit choices",
		}),
		InvalidChoices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_choices_total",
			Help:      "Total number of out-of-range exit choices",
		}),
		Restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Total number of game restarts",
		}),
		MazesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mazes_completed_total",
			Help:      "Total number of sessions that reached an end room",
		}),
		Watchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected websocket watchers",
		}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}, []string{"route", "method", "code"}),
		SessionMoves: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_moves",
			Help:      "Moves made in the live session",
		}),
		SessionFinished: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_finished",
			Help:      "1 when the live session has reached an end room",
		}),
	}
}

// NewMonitor creates the metrics and registers them, together with the
// process and go runtime collectors, on a fresh registry
func NewMonitor(namespace string) *Monitor {
	m := &Monitor{
		metrics:   NewMetrics(namespace),
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
	}

	m.registry.MustRegister(
		m.metrics.ExitsChosen,
		m.metrics.InvalidChoices,
		m.metrics.Restarts,
		m.metrics.MazesCompleted,
		m.metrics.Watchers,
		m.metrics.RequestLatency,
		m.metrics.SessionMoves,
		m.metrics.SessionFinished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the monitor was created",
		}, func() float64 {
			return time.Since(m.startTime).Seconds()
		}),
	)

	return m
}

// Metrics returns the underlying collectors
func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

// Registry returns the registry the collectors live on
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordMove counts a successful exit choice
func (m *Monitor) RecordMove(totalMoves int, finished bool) {
	m.metrics.ExitsChosen.Inc()
	m.metrics.SessionMoves.Set(float64(totalMoves))
	m.metrics.SessionFinished.Set(boolGauge(finished))
}

// RecordInvalidChoice counts an out-of-range exit choice
func (m *Monitor) RecordInvalidChoice() {
	m.metrics.InvalidChoices.Inc()
}

// RecordCompletion counts a session reaching an end room for the first time
func (m *Monitor) RecordCompletion() {
	m.metrics.MazesCompleted.Inc()
}

// RecordRestart counts a restart and resets the session gauges
func (m *Monitor) RecordRestart() {
	m.metrics.Restarts.Inc()
	m.metrics.SessionMoves.Set(0)
	m.metrics.SessionFinished.Set(0)
}

// SetWatchers reports the websocket client count
func (m *Monitor) SetWatchers(n int) {
	m.metrics.Watchers.Set(float64(n))
}

// ObserveRequest records the latency of one HTTP request
func (m *Monitor) ObserveRequest(route, method string, code int, d time.Duration) {
	m.metrics.RequestLatency.WithLabelValues(route, method, strconv.Itoa(code)).Observe(d.Seconds())
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
