package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "idml2docbook"

// Metrics holds the Prometheus collectors of one server.
type Metrics struct {
	registry           *prom.Registry
	requests           *prom.CounterVec
	requestDuration    *prom.HistogramVec
	conversions        *prom.CounterVec
	conversionDuration *prom.HistogramVec
	cacheHits          prom.Counter
	activeJobs         prom.Gauge
	wsClients          prom.Gauge
}

// NewMetrics registers the server collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status",
		}, []string{"method", "path", "code"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "path"}),
		conversions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "conversions_total",
			Help:      "Conversions by input kind and result",
		}, []string{"kind", "result"}),
		conversionDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "conversion_duration_seconds",
			Help:      "Conversion duration by input kind",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"kind"}),
		cacheHits: prom.NewCounter(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "result_cache_hits_total",
			Help:      "Conversions answered from the result cache",
		}),
		activeJobs: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_jobs",
			Help:      "Asynchronous jobs currently running",
		}),
		wsClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.requestDuration,
		m.conversions, m.conversionDuration, m.cacheHits,
		m.activeJobs, m.wsClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one HTTP request. Job paths are collapsed so
// ids do not become label values.
func (m *Metrics) ObserveRequest(method, path string, code int, d time.Duration) {
	if m == nil {
		return
	}
	path = routeLabel(path)
	m.requests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveConversion records one conversion.
func (m *Metrics) ObserveConversion(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.conversions.WithLabelValues(kind, result).Inc()
	m.conversionDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func routeLabel(path string) string {
	switch path {
	case "/", "/health", "/metrics", "/convert", "/jobs", "/ws":
		return path
	}
	if strings.HasPrefix(path, "/jobs/") {
		return "/jobs/{id}"
	}
	return "other"
}
