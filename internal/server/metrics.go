package server

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuskit/campuskit"
)

const metricsNamespace = "campuskit"

// metrics holds the host's Prometheus collectors.
type metrics struct {
	registry        *prom.Registry
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
	documents       *prom.CounterVec
	exports         *prom.CounterVec
	exportDuration  *prom.HistogramVec
}

func newMetrics(reg *prom.Registry) *metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &metrics{
		registry: reg,
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "documents_assembled_total",
			Help:      "Documents assembled by mode",
		}, []string{"mode"}),
		exports: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "exports_total",
			Help:      "Snapshot exports by format and result",
		}, []string{"format", "result"}),
		exportDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "export_duration_seconds",
			Help:      "Snapshot export latency by format",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"format"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.documents, m.exports, m.exportDuration)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *metrics) observeDocument(mode campuskit.Mode) {
	m.documents.WithLabelValues(mode.String()).Inc()
}

func (m *metrics) observeExport(format campuskit.ExportFormat, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.exports.WithLabelValues(format.String(), result).Inc()
	m.exportDuration.WithLabelValues(format.String()).Observe(d.Seconds())
}
