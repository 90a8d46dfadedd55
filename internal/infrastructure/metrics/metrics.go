// Package metrics holds the Prometheus collectors for the HTTP layer and the
// schedule domain on a private registry.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	mutations           *prometheus.CounterVec
	occurrences         prometheus.Counter
	persistenceFailures *prometheus.CounterVec
	importedRecords     *prometheus.CounterVec
	backups             *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_mutations_total",
				Help: "Schedule and template mutations by entity and operation",
			},
			[]string{"entity", "operation"},
		),
		occurrences: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "planner_generated_occurrences_total",
				Help: "Occurrences generated from repeating schedules",
			},
		),
		persistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_persistence_failures_total",
				Help: "Failed writes to the data files",
			},
			[]string{"entity"},
		),
		importedRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_imported_records_total",
				Help: "Imported schedule records by result",
			},
			[]string{"result"},
		),
		backups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_backups_total",
				Help: "Backup copies taken by trigger and result",
			},
			[]string{"trigger", "result"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.mutations,
		m.occurrences,
		m.persistenceFailures,
		m.importedRecords,
		m.backups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts and times every request by route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	}
}

func (m *Metrics) RecordMutation(entity, operation string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(entity, operation).Inc()
}

func (m *Metrics) RecordOccurrences(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.occurrences.Add(float64(n))
}

func (m *Metrics) RecordPersistenceFailure(entity string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(entity).Inc()
}

func (m *Metrics) RecordImport(imported, failed int) {
	if m == nil {
		return
	}
	m.importedRecords.WithLabelValues("imported").Add(float64(imported))
	m.importedRecords.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) RecordBackup(trigger string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.backups.WithLabelValues(trigger, result).Inc()
}
