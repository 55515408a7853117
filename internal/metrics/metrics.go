// Package metrics exposes Prometheus counters for ingestion, reconciliation
// and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taxdeed"

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	IngestTotal       *prometheus.CounterVec
	ExistenceLookups  *prometheus.CounterVec
	ReconcileRuns     *prometheus.CounterVec
	ReconcileRemoved  *prometheus.CounterVec
	ScraperRuns       *prometheus.CounterVec
	MaintenanceJobs   *prometheus.CounterVec
	HTTPRequestTiming *prometheus.HistogramVec

	registry *prometheus.Registry
	enabled  bool
}

func New(enabled bool) *Metrics {
	m := &Metrics{
		enabled:  enabled,
		registry: prometheus.NewRegistry(),
	}
	if !enabled {
		return m
	}

	m.IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_total",
			Help:      "Ingested records by outcome",
		},
		[]string{"county", "state", "action"}, // created, updated, error
	)
	m.ExistenceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "existence_nodes_total",
			Help:      "Nodes submitted to the existence check and how many were found",
		},
		[]string{"result"}, // queried, found
	)
	m.ReconcileRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation calls by outcome",
		},
		[]string{"county", "state", "outcome"}, // applied, skipped, dry_run, error
	)
	m.ReconcileRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_removed_total",
			Help:      "Properties marked removed by reconciliation",
		},
		[]string{"county", "state"},
	)
	m.ScraperRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scraper_runs_total",
			Help:      "Scraper run transitions",
		},
		[]string{"scraper", "status"},
	)
	m.MaintenanceJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_jobs_total",
			Help:      "Scheduled maintenance job executions",
		},
		[]string{"job", "status"},
	)
	m.HTTPRequestTiming = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	m.registry.MustRegister(
		m.IngestTotal,
		m.ExistenceLookups,
		m.ReconcileRuns,
		m.ReconcileRemoved,
		m.ScraperRuns,
		m.MaintenanceJobs,
		m.HTTPRequestTiming,
	)
	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordIngest(county, state, action string) {
	if m.Enabled() {
		m.IngestTotal.WithLabelValues(county, state, action).Inc()
	}
}

func (m *Metrics) RecordExistence(queried, found int) {
	if m.Enabled() {
		m.ExistenceLookups.WithLabelValues("queried").Add(float64(queried))
		m.ExistenceLookups.WithLabelValues("found").Add(float64(found))
	}
}

func (m *Metrics) RecordReconcile(county, state, outcome string, removed int64) {
	if !m.Enabled() {
		return
	}
	m.ReconcileRuns.WithLabelValues(county, state, outcome).Inc()
	if removed > 0 {
		m.ReconcileRemoved.WithLabelValues(county, state).Add(float64(removed))
	}
}

func (m *Metrics) RecordScraperRun(scraper, status string) {
	if m.Enabled() {
		m.ScraperRuns.WithLabelValues(scraper, status).Inc()
	}
}

func (m *Metrics) RecordMaintenance(job string, err error) {
	if !m.Enabled() {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.MaintenanceJobs.WithLabelValues(job, status).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m.Enabled() {
		m.HTTPRequestTiming.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
