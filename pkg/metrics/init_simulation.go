package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.StepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "wsnsim_steps_total",
			Help: "Total number of simulated time steps",
		},
	)

	r.PacketsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wsnsim_packets_total",
			Help: "Total number of packet delivery attempts by outcome",
		},
		[]string{"status"},
	)

	r.NodeDeathsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "wsnsim_node_deaths_total",
			Help: "Total number of nodes that depleted their energy",
		},
	)

	r.TTREventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wsnsim_ttr_events_total",
			Help: "Total number of time-to-recovery events by final state",
		},
		[]string{"state"},
	)

	r.StaticRemovalsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "wsnsim_static_removals_total",
			Help: "Total number of nodes removed by static attacks",
		},
		[]string{"strategy"},
	)
}
