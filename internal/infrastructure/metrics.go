package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the analyzer.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal    prometheus.Counter
	AnalysisFailures prometheus.Counter
	AnalysisDuration prometheus.Histogram
	RecordsLoaded    prometheus.Gauge
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics creates a metrics set on its own registry so tests can build
// isolated instances.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		AnalysesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "leanix_analyses_total",
			Help: "Number of portfolio analyses executed.",
		}),
		AnalysisFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "leanix_analysis_failures_total",
			Help: "Number of portfolio analyses that failed.",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "leanix_analysis_duration_seconds",
			Help:    "Duration of a full load-and-aggregate pass.",
			Buckets: prometheus.DefBuckets,
		}),
		RecordsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "leanix_records_loaded",
			Help: "Number of application records in the latest snapshot.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leanix_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "status"}),
	}
}

// Handler returns the /metrics HTTP handler for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records the outcome of one analysis run.
func (m *Metrics) ObserveAnalysis(start time.Time, records int, err error) {
	m.AnalysesTotal.Inc()
	m.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.AnalysisFailures.Inc()
		return
	}
	m.RecordsLoaded.Set(float64(records))
}

// ObserveRequest records an HTTP request duration.
func (m *Metrics) ObserveRequest(path string, status int, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
