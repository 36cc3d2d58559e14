package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics on a registry owned by this instance
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Command metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	CommandErrors   *prometheus.CounterVec

	// Note store metrics
	NotesTotal     prometheus.Gauge
	DialogOutcomes *prometheus.CounterVec

	// Folder watch metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
	WatchEvents   *prometheus.CounterVec

	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for the health endpoint
type Snapshot struct {
	TotalRequests int64   `json:"total_requests"`
	TotalErrors   int64   `json:"total_errors"`
	TotalCommands int64   `json:"total_commands"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	UptimeSeconds float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry,
// so several instances (one per test server) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klin_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "klin_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "klin_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klin_command_calls_total",
				Help: "Total number of command invocations",
			},
			[]string{"service", "command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "klin_command_duration_seconds",
				Help:    "Command duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 5, 30},
			},
			[]string{"service", "command"},
		),
		CommandErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klin_command_errors_total",
				Help: "Total number of failed commands by error kind",
			},
			[]string{"service", "command", "kind"},
		),

		NotesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "klin_notes",
				Help: "Number of notes seen by the last listing",
			},
		),
		DialogOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klin_save_dialog_total",
				Help: "Save dialog results",
			},
			[]string{"command", "outcome"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "klin_ws_connections",
				Help: "Number of open stream connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klin_ws_messages_total",
				Help: "Total number of stream messages",
			},
			[]string{"direction", "type"},
		),
		WatchEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "klin_watch_events_total",
				Help: "Filesystem change events delivered to watchers",
			},
			[]string{"op"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "klin_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCommand records a command invocation. kind is empty on success.
func (m *Metrics) RecordCommand(service, command, kind string, duration time.Duration) {
	status := "success"
	if kind != "" {
		status = "error"
		m.CommandErrors.WithLabelValues(service, command, kind).Inc()
	}
	m.CommandCalls.WithLabelValues(service, command, status).Inc()
	m.CommandDuration.WithLabelValues(service, command).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalCommands++
	m.snapshot.totalDuration += duration.Seconds()
	m.mu.Unlock()
}

// SetNotes sets the number of notes
func (m *Metrics) SetNotes(count int) {
	m.NotesTotal.Set(float64(count))
}

// RecordDialog records a save dialog outcome ("saved", "cancelled", "failed")
func (m *Metrics) RecordDialog(command, outcome string) {
	m.DialogOutcomes.WithLabelValues(command, outcome).Inc()
}

// RecordWSMessage records a stream message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// RecordWatchEvent records a delivered filesystem change
func (m *Metrics) RecordWatchEvent(op string) {
	m.WatchEvents.WithLabelValues(op).Inc()
}

// IncWSConnections increments stream connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements stream connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// GetSnapshot returns a copy of the running totals
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalCommands > 0 {
		s.AvgDurationMs = s.totalDuration / float64(s.TotalCommands) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
