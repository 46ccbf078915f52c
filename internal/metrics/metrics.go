// Package metrics holds the Prometheus instruments of the dashboard.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Load outcomes.
const (
	LoadOK       = "ok"
	LoadFallback = "fallback"
	LoadStale    = "stale"
)

// Registry holds all dashboard metrics on its own Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	Loads        *prometheus.CounterVec
	Mutations    *prometheus.CounterVec
	Rejections   *prometheus.CounterVec
	Degraded     prometheus.Gauge
	TotalValue   prometheus.Gauge
	Positions    prometheus.Gauge
	JobRuns      *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry creates and registers every metric, plus the Go runtime and
// process collectors.
func NewRegistry() *Registry {
	m := &Registry{
		reg: prometheus.NewRegistry(),

		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_loads_total",
				Help: "Dashboard loads from the data source by outcome",
			},
			[]string{"outcome"},
		),

		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_mutations_total",
				Help: "Accepted mutations by kind",
			},
			[]string{"kind"},
		),

		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_mutation_rejections_total",
				Help: "Rejected mutations by kind",
			},
			[]string{"kind"},
		),

		Degraded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_degraded",
				Help: "1 while the dashboard shows the fallback dataset",
			},
		),

		TotalValue: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_total_value",
				Help: "Summed market value of all positions",
			},
		),

		Positions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_positions",
				Help: "Number of positions held",
			},
		),

		JobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_job_runs_total",
				Help: "Scheduled job runs by job and status",
			},
			[]string{"job", "status"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_http_requests_total",
				Help: "HTTP requests by method and status",
			},
			[]string{"method", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"method"},
		),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Loads,
		m.Mutations,
		m.Rejections,
		m.Degraded,
		m.TotalValue,
		m.Positions,
		m.JobRuns,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// RecordLoad counts a load and updates the degraded flag.
func (m *Registry) RecordLoad(outcome string, degraded bool) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(outcome).Inc()
	if outcome == LoadStale {
		return
	}
	if degraded {
		m.Degraded.Set(1)
	} else {
		m.Degraded.Set(0)
	}
}

// RecordMutation counts an accepted or rejected mutation.
func (m *Registry) RecordMutation(kind string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Rejections.WithLabelValues(kind).Inc()
		return
	}
	m.Mutations.WithLabelValues(kind).Inc()
}

// SetHoldings publishes the current total value and position count.
func (m *Registry) SetHoldings(totalValue decimal.Decimal, positions int) {
	if m == nil {
		return
	}
	f, _ := totalValue.Float64()
	m.TotalValue.Set(f)
	m.Positions.Set(float64(positions))
}

// RecordJob counts a scheduled job run.
func (m *Registry) RecordJob(job string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.JobRuns.WithLabelValues(job, status).Inc()
}

// RecordRequest counts a served HTTP request and observes its duration.
func (m *Registry) RecordRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
