package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run kinds used as label values
const (
	KindDynamic = "dynamic"
	KindStatic  = "static"
)

// RunStats is what a finished dynamic run contributes to the counters.
type RunStats struct {
	Steps               int
	DeliveredPackets    int
	TotalPackets        int
	NodeDeaths          int
	ResolvedTTREvents   int
	UnresolvedTTREvents int
}

// RunStarted marks a run as in flight
func (r *Registry) RunStarted() {
	r.RunsInFlight.Inc()
}

// RecordRun records a finished run of the given kind. A non-nil err counts
// as a failure instead of a completion.
func (r *Registry) RecordRun(kind, model string, duration time.Duration, err error) {
	r.RunsInFlight.Dec()
	if err != nil {
		r.RunFailuresTotal.WithLabelValues(model, kind).Inc()
		return
	}
	r.RunsTotal.WithLabelValues(model, kind).Inc()
	r.RunDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordDynamicRun adds the counters of a finished dynamic run
func (r *Registry) RecordDynamicRun(s RunStats) {
	r.StepsTotal.Add(float64(s.Steps))
	r.PacketsTotal.WithLabelValues("delivered").Add(float64(s.DeliveredPackets))
	r.PacketsTotal.WithLabelValues("dropped").Add(float64(s.TotalPackets - s.DeliveredPackets))
	r.NodeDeathsTotal.Add(float64(s.NodeDeaths))
	r.TTREventsTotal.WithLabelValues("resolved").Add(float64(s.ResolvedTTREvents))
	r.TTREventsTotal.WithLabelValues("unresolved").Add(float64(s.UnresolvedTTREvents))
}

// RecordStaticAttack counts the removals of one attack
func (r *Registry) RecordStaticAttack(strategy string, removals int) {
	r.StaticRemovalsTotal.WithLabelValues(strategy).Add(float64(removals))
}

// RecordSweep counts a finished sweep
func (r *Registry) RecordSweep(kind string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.SweepsTotal.WithLabelValues(kind, status).Inc()
}

// UpdateSystemMetrics samples uptime and Go runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// WriteTextfile refreshes the system gauges and writes every metric to path
// in the node-exporter textfile format.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
