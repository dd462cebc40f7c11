package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors the HTTP API updates. They live on their own
// registry so that tests and embedded servers never collide on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	ModelRuns          *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	SolverRuns         *prometheus.CounterVec
}

// NewMetrics registers the API collectors plus the Go and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopmodel_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "method", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopmodel_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		ModelRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopmodel_model_runs_total",
				Help: "Total number of model evaluations by preset and outcome",
			},
			[]string{"preset", "outcome"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopmodel_validation_failures_total",
				Help: "Total number of rejected assumption documents by validation level",
			},
			[]string{"level"},
		),
		SolverRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopmodel_breakeven_solves_total",
				Help: "Total number of breakeven solves by field and result",
			},
			[]string{"field", "result"},
		),
	}
}
