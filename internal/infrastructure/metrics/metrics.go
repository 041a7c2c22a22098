package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	// DatasetLoadDuration measures download plus parse time per file.
	DatasetLoadDuration *prometheus.HistogramVec

	// SourceErrors counts failed loads by reason.
	SourceErrors *prometheus.CounterVec

	// CacheLookups counts memo lookups by result (hit, miss, error).
	CacheLookups *prometheus.CounterVec

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState *prometheus.GaugeVec

	// DatasetTickets is the size of the loaded ticket export.
	DatasetTickets *prometheus.GaugeVec

	// HTTPRequestDuration measures request latency by route pattern.
	HTTPRequestDuration *prometheus.HistogramVec

	// WebSocketClients is the number of connected live-update clients.
	WebSocketClients prometheus.Gauge
}

// NewMetrics registers the collectors on reg. A nil registerer gets a private
// registry so tests can build services without a global one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		DatasetLoadDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "testing_insight_dataset_load_duration_seconds",
			Help:    "Histogram of dataset download and parse latencies.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"file", "status"}),

		SourceErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "testing_insight_source_errors_total",
			Help: "Total number of failed dataset loads by reason.",
		}, []string{"file", "reason"}),

		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "testing_insight_cache_lookups_total",
			Help: "Total number of result cache lookups by outcome.",
		}, []string{"result"}),

		CircuitBreakerState: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "testing_insight_circuit_breaker_state",
			Help: "Current state of the file source circuit breaker (0=closed, 1=half-open, 2=open).",
		}, []string{"source"}),

		DatasetTickets: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "testing_insight_dataset_tickets",
			Help: "Number of tickets in the loaded export.",
		}, []string{"file"}),

		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "testing_insight_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		WebSocketClients: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "testing_insight_websocket_clients",
			Help: "Number of connected WebSocket clients.",
		}),
	}
}

// ObserveLoad records one load attempt of file.
func (m *Metrics) ObserveLoad(file string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DatasetLoadDuration.WithLabelValues(file, status).Observe(time.Since(started).Seconds())
}
