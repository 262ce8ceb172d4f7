package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSweepMetrics() {
	r.SweepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wsnsim_sweeps_total",
			Help: "Total number of experiment sweeps by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wsnsim_runs_total",
			Help: "Total number of completed simulation runs",
		},
		[]string{"model", "kind"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wsnsim_run_duration_seconds",
			Help:    "Wall-clock duration of a single simulation run",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)

	r.RunsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "wsnsim_sweep_runs_in_flight",
			Help: "Number of simulation runs currently executing",
		},
	)

	r.RunFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wsnsim_run_failures_total",
			Help: "Total number of runs that returned an error",
		},
		[]string{"model", "kind"},
	)
}
