package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	remoteDuration  *prometheus.HistogramVec
	remoteFailures  *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	importedRows    *prometheus.CounterVec
}

// NewMetricsService registers the console collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_remote_call_duration_seconds",
		Help:    "Duration of calls to the roster backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "op"})

	remoteFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_remote_call_failures_total",
		Help: "Calls to the roster backend that failed",
	}, []string{"entity", "op"})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "console_active_sessions",
		Help: "Signed-in console sessions",
	})

	importedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_import_rows_total",
		Help: "CSV import rows by outcome",
	}, []string{"entity", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, remoteDuration, remoteFailures, activeSessions, importedRows, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		remoteDuration:  remoteDuration,
		remoteFailures:  remoteFailures,
		activeSessions:  activeSessions,
		importedRows:    importedRows,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveRemoteCall records one roster backend call.
func (m *MetricsService) ObserveRemoteCall(entity, op string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.remoteDuration.WithLabelValues(entity, op).Observe(duration.Seconds())
	if err != nil {
		m.remoteFailures.WithLabelValues(entity, op).Inc()
	}
}

// SetActiveSessions publishes the current session count.
func (m *MetricsService) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// ObserveImport counts the outcome of one import run.
func (m *MetricsService) ObserveImport(entity string, created, failed int) {
	if m == nil {
		return
	}
	m.importedRows.WithLabelValues(entity, "created").Add(float64(created))
	m.importedRows.WithLabelValues(entity, "failed").Add(float64(failed))
}
