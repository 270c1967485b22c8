package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry       *prometheus.Registry
	importedRows   *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
	agentRuns      *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		importedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carewatch_import_rows_total",
			Help: "CSV rows processed by the importer, by domain and outcome",
		}, []string{"domain", "outcome"}),
		importDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carewatch_import_duration_seconds",
			Help:    "Time spent importing one CSV file",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"domain"}),
		agentRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carewatch_agent_runs_total",
			Help: "Agent runs requested through the API",
		}, []string{"agent"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carewatch_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status"}),
	}
}

func (metrics *Metrics) ObserveImport(domain string, inserted int, duplicates int, rejected int, failed int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.importedRows.WithLabelValues(domain, "inserted").Add(float64(inserted))
	metrics.importedRows.WithLabelValues(domain, "duplicate").Add(float64(duplicates))
	metrics.importedRows.WithLabelValues(domain, "rejected").Add(float64(rejected))
	metrics.importedRows.WithLabelValues(domain, "failed").Add(float64(failed))
	metrics.importDuration.WithLabelValues(domain).Observe(duration.Seconds())
}

func (metrics *Metrics) ObserveAgentRun(agent string) {
	if metrics == nil {
		return
	}
	metrics.agentRuns.WithLabelValues(agent).Inc()
}

func (metrics *Metrics) ObserveRequest(route string, status string) {
	if metrics == nil {
		return
	}
	metrics.httpRequests.WithLabelValues(route, status).Inc()
}

func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}
