package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.RunsTotal == nil {
		t.Error("RunsTotal not initialized")
	}
	if r.PacketsTotal == nil {
		t.Error("PacketsTotal not initialized")
	}
	if r.UptimeSeconds == nil {
		t.Error("UptimeSeconds not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RunStarted()
	r.RunStarted()
	r.RunStarted()
	r.RecordRun(KindDynamic, "ER", 20*time.Millisecond, nil)
	r.RecordRun(KindDynamic, "ER", 30*time.Millisecond, nil)
	r.RecordRun(KindDynamic, "BA", 0, errors.New("boom"))

	if got := counterValue(t, r.RunsTotal.WithLabelValues("ER", KindDynamic)); got != 2 {
		t.Errorf("runs_total{ER,dynamic} = %v, want 2", got)
	}
	if got := counterValue(t, r.RunFailuresTotal.WithLabelValues("BA", KindDynamic)); got != 1 {
		t.Errorf("run_failures_total{BA,dynamic} = %v, want 1", got)
	}
	if got := gaugeValue(t, r.RunsInFlight); got != 0 {
		t.Errorf("runs_in_flight = %v, want 0", got)
	}

	histogram, err := r.RunDuration.GetMetricWithLabelValues(KindDynamic)
	if err != nil {
		t.Fatalf("Failed to get histogram: %v", err)
	}
	var metric dto.Metric
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write histogram: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Histogram sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestRecordDynamicRun(t *testing.T) {
	r := NewRegistry()
	r.RecordDynamicRun(RunStats{
		Steps:               100,
		DeliveredPackets:    70,
		TotalPackets:        100,
		NodeDeaths:          4,
		ResolvedTTREvents:   3,
		UnresolvedTTREvents: 1,
	})

	tests := []struct {
		name    string
		counter prometheus.Counter
		want    float64
	}{
		{"steps", r.StepsTotal, 100},
		{"delivered", r.PacketsTotal.WithLabelValues("delivered"), 70},
		{"dropped", r.PacketsTotal.WithLabelValues("dropped"), 30},
		{"deaths", r.NodeDeathsTotal, 4},
		{"resolved", r.TTREventsTotal.WithLabelValues("resolved"), 3},
		{"unresolved", r.TTREventsTotal.WithLabelValues("unresolved"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := counterValue(t, tt.counter); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRecordSweepAndStatic(t *testing.T) {
	r := NewRegistry()
	r.RecordSweep(KindStatic, nil)
	r.RecordSweep(KindStatic, errors.New("cancelled"))
	r.RecordStaticAttack("random", 200)

	if got := counterValue(t, r.SweepsTotal.WithLabelValues(KindStatic, "success")); got != 1 {
		t.Errorf("sweeps success = %v, want 1", got)
	}
	if got := counterValue(t, r.SweepsTotal.WithLabelValues(KindStatic, "error")); got != 1 {
		t.Errorf("sweeps error = %v, want 1", got)
	}
	if got := counterValue(t, r.StaticRemovalsTotal.WithLabelValues("random")); got != 200 {
		t.Errorf("static removals = %v, want 200", got)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics()

	if gaugeValue(t, r.GoRoutines) < 1 {
		t.Error("GoRoutines should be at least 1")
	}
	if gaugeValue(t, r.MemorySysBytes) <= 0 {
		t.Error("MemorySysBytes should be positive")
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.RecordDynamicRun(RunStats{Steps: 1})
			}
		}()
	}
	wg.Wait()

	if got := counterValue(t, r.StepsTotal); got != 1000 {
		t.Errorf("steps_total = %v, want 1000", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordDynamicRun(RunStats{Steps: 5})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "wsnsim_steps_total 5") {
		t.Errorf("Exposition missing steps counter:\n%s", body)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordStaticAttack("targeted_degree", 3)

	path := filepath.Join(t.TempDir(), "wsnsim.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `wsnsim_static_removals_total{strategy="targeted_degree"} 3`) {
		t.Errorf("Textfile missing static removals:\n%s", data)
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	// Vectors only show up once a label set exists
	r.RecordDynamicRun(RunStats{})
	r.RecordSweep(KindDynamic, nil)

	metrics, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for _, m := range metrics {
		if !strings.HasPrefix(m.GetName(), "wsnsim_") {
			t.Errorf("Metric %s does not have wsnsim_ prefix", m.GetName())
		}
	}
}

func BenchmarkRecordDynamicRun(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordDynamicRun(RunStats{Steps: 1000, DeliveredPackets: 900, TotalPackets: 1000})
	}
}
