package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Evaluation metrics
	EvaluationsTotal    *prometheus.CounterVec
	EvaluationDuration  *prometheus.HistogramVec
	EvaluationErrors    *prometheus.CounterVec
	EvaluationsInFlight prometheus.Gauge
	Lookups             *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests       int64   `json:"total_requests"`
	TotalErrors         int64   `json:"total_errors"`
	TotalEvaluations    int64   `json:"total_evaluations"`
	FailedEvaluations   int64   `json:"failed_evaluations"`
	EvaluationsInFlight int64   `json:"evaluations_in_flight"`
	ActiveConnections   int64   `json:"active_connections"`
	TotalEvaluationTime float64 `json:"total_evaluation_seconds"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics collector registered on reg. A nil reg
// uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editorconfig_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editorconfig_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editorconfig_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editorconfig_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Evaluation metrics
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editorconfig_evaluations_total",
				Help: "Total number of editor config evaluations",
			},
			[]string{"operation", "status"},
		),
		EvaluationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "editorconfig_evaluation_duration_seconds",
				Help:    "Editor config evaluation duration in seconds",
				Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 5},
			},
			[]string{"operation"},
		),
		EvaluationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editorconfig_evaluation_errors_total",
				Help: "Total number of failed evaluations by error kind and stage",
			},
			[]string{"operation", "kind", "stage"},
		),
		EvaluationsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "editorconfig_evaluations_in_flight",
				Help: "Number of evaluations currently running",
			},
		),
		Lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editorconfig_function_lookups_total",
				Help: "Contract function lookups by function and result",
			},
			[]string{"function", "present"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "editorconfig_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editorconfig_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "editorconfig_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordEvaluation records a finished evaluation
func (m *Metrics) RecordEvaluation(operation, status string, duration time.Duration) {
	m.EvaluationsTotal.WithLabelValues(operation, status).Inc()
	m.EvaluationDuration.WithLabelValues(operation).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalEvaluations++
	m.snapshot.TotalEvaluationTime += duration.Seconds()
	if status != "success" {
		m.snapshot.FailedEvaluations++
	}
	m.mu.Unlock()
}

// RecordEvaluationError records the kind and stage of a failed evaluation
func (m *Metrics) RecordEvaluationError(operation, kind, stage string) {
	m.EvaluationErrors.WithLabelValues(operation, kind, stage).Inc()
}

// RecordLookup records whether a contract function was found
func (m *Metrics) RecordLookup(function string, present bool) {
	m.Lookups.WithLabelValues(function, strconv.FormatBool(present)).Inc()
}

// EvaluationStarted marks an evaluation as in flight
func (m *Metrics) EvaluationStarted() {
	m.EvaluationsInFlight.Inc()
	m.mu.Lock()
	m.snapshot.EvaluationsInFlight++
	m.mu.Unlock()
}

// EvaluationFinished marks an in-flight evaluation as done
func (m *Metrics) EvaluationFinished() {
	m.EvaluationsInFlight.Dec()
	m.mu.Lock()
	m.snapshot.EvaluationsInFlight--
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns a copy of the current metric values
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
