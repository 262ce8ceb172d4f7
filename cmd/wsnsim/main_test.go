package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/wsn-resilience/pkg/dynamic"
	"github.com/dd0wney/wsn-resilience/pkg/experiment"
	"github.com/dd0wney/wsn-resilience/pkg/health"
	"github.com/dd0wney/wsn-resilience/pkg/logging"
	"github.com/dd0wney/wsn-resilience/pkg/report"
	"github.com/dd0wney/wsn-resilience/pkg/static"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"version": false, "dynamic": false, "static": false, "generate": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNewVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "wsnsim version "+version) {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestGenerateCmd(t *testing.T) {
	args := []string{"generate", "--model", "ER", "--nodes", "30", "--seed", "5", "--run", "2"}
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], `# model="Erdos-Renyi" type=ER nodes=30`) {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], "seed=7") {
		t.Errorf("header %q should carry seed base+run = 7", lines[0])
	}
	if !strings.HasPrefix(lines[1], "# mean_degree=") {
		t.Errorf("missing structure header, got %q", lines[1])
	}
	for _, line := range lines[2:] {
		if len(strings.Fields(line)) != 2 {
			t.Errorf("edge line %q is not a pair", line)
		}
	}

	again, err := execute(t, args...)
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}
	if again != out {
		t.Error("the same model, seed and run should give the same edge list")
	}
}

func TestGenerateCmdToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ba.txt")
	if _, err := execute(t, "generate", "--model", "barabasi-albert", "--nodes", "20", "--out", path); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading edge list: %v", err)
	}
	if !strings.Contains(string(data), "type=BA nodes=20") {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		graph *topology.Graph
		want  structure
	}{
		{"path", topology.GeneratePath(4), structure{meanDegree: 1.5, components: 1, largest: 4}},
		{"complete", topology.GenerateComplete(4), structure{meanDegree: 3, components: 1, largest: 4, triangles: 4, clustering: 1}},
		{"isolated", topology.NewGraph(3), structure{components: 3, largest: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.graph); got != tt.want {
				t.Errorf("describe() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGenerateCmdUnknownModel(t *testing.T) {
	_, err := execute(t, "generate", "--model", "mesh")
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("expected a not-configured error, got %v", err)
	}
}

func TestDynamicCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "dynamic",
		"--runs", "2", "--steps", "15", "--nodes", "30",
		"--out-dir", dir, "--no-progress", "--log-level", "error",
		"--timeseries", "ts.csv", "--summary", "sum.csv")
	if err != nil {
		t.Fatalf("dynamic failed: %v", err)
	}

	ts, err := os.ReadFile(filepath.Join(dir, "ts.csv"))
	if err != nil {
		t.Fatalf("time series not written: %v", err)
	}
	if !strings.HasPrefix(string(ts), "model_name,run_id,step,lcc,") {
		t.Errorf("unexpected time series header in %q", firstLine(string(ts)))
	}
	// 5 models x 2 runs x 15 steps plus the header.
	if got := strings.Count(string(ts), "\n"); got != 5*2*15+1 {
		t.Errorf("time series has %d lines, want %d", got, 5*2*15+1)
	}

	sum, err := os.ReadFile(filepath.Join(dir, "sum.csv"))
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if got := strings.Count(string(sum), "\n"); got != 5*2+1 {
		t.Errorf("summary has %d lines, want %d", got, 5*2+1)
	}

	for _, model := range []string{"Erdos-Renyi", "Barabasi-Albert", "Watts-Strogatz", "Random Geometric", "Hierarchical"} {
		if !strings.Contains(out, model) {
			t.Errorf("summary table is missing %s", model)
		}
	}
}

func TestDynamicCmdCompressed(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "dynamic", "--runs", "1", "--steps", "5", "--nodes", "20",
		"--out-dir", dir, "--no-progress", "--log-level", "error", "--compress")
	if err != nil {
		t.Fatalf("dynamic failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dynamic_summary.csv.sz")); err != nil {
		t.Errorf("compressed summary not written: %v", err)
	}
}

func TestStaticCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "static",
		"--runs", "1", "--nodes", "20", "--strategy", "targeted_degree",
		"--compute-ac=false", "--out-dir", dir, "--output", "attack.csv",
		"--no-progress", "--log-level", "error")
	if err != nil {
		t.Fatalf("static failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "attack.csv"))
	if err != nil {
		t.Fatalf("static table not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "model_name,attack_strategy,run_id,nodes_removed_fraction,") {
		t.Errorf("unexpected header %q", firstLine(string(data)))
	}
	if strings.Contains(string(data), ",random,") {
		t.Error("only the targeted_degree strategy was requested")
	}
	if !strings.Contains(out, "targeted_degree") {
		t.Errorf("summary table is missing the strategy: %q", out)
	}
}

func TestStaticCmdUnknownStrategy(t *testing.T) {
	_, err := execute(t, "static", "--strategy", "bogus", "--no-progress")
	if err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"dynamic", "--config", filepath.Join(t.TempDir(), "none.yaml")}},
		{"zero runs", []string{"dynamic", "--runs", "0", "--no-progress"}},
		{"negative steps", []string{"dynamic", "--steps", "-1", "--no-progress"}},
		{"huge worker count", []string{"static", "--workers", "1000000000", "--no-progress"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// closingSink records Close and fails it with err.
type closingSink struct {
	closed bool
	err    error
}

func (s *closingSink) Write(context.Context, *report.Table) error { return nil }

func (s *closingSink) Close() error {
	s.closed = true
	return s.err
}

func TestAbortSweep(t *testing.T) {
	sweepErr := errors.New("run 3 failed")
	closeErr := errors.New("bucket gone")
	ok, failing := &closingSink{}, &closingSink{err: closeErr}

	err := abortSweep("dynamic", []report.Sink{ok, failing}, sweepErr)
	if !ok.closed || !failing.closed {
		t.Fatal("every sink must be closed")
	}
	if !errors.Is(err, sweepErr) {
		t.Errorf("sweep error lost: %v", err)
	}
	if !errors.Is(err, closeErr) {
		t.Errorf("close error dropped: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "dynamic sweep failed: ") {
		t.Errorf("unexpected message %q", err)
	}

	err = abortSweep("static", []report.Sink{&closingSink{}}, sweepErr)
	if !errors.Is(err, sweepErr) || strings.Contains(err.Error(), "bucket") {
		t.Errorf("clean close should report only the sweep error: %v", err)
	}
}

func TestSummarizeDynamic(t *testing.T) {
	inf := math.Inf(1)
	rows := []experiment.SummaryRow{
		{Model: "A", RunID: 0, Summary: dynamic.Summary{DDRFinal: 0.5, TimeToFirstDeath: 10, TimeToLCCCollapse: inf, TTREventsCount: 2, TTRMean: 4}},
		{Model: "A", RunID: 1, Summary: dynamic.Summary{DDRFinal: 1, TimeToFirstDeath: 20, TimeToLCCCollapse: inf, TTREventsCount: 1, TTRMean: inf}},
		{Model: "B", RunID: 0, Summary: dynamic.Summary{DDRFinal: 0, TimeToFirstDeath: inf, TimeToLCCCollapse: 3, TTRMean: inf}},
	}

	got := summarizeDynamic(rows)
	if len(got) != 2 || got[0].Model != "A" || got[1].Model != "B" {
		t.Fatalf("unexpected grouping %+v", got)
	}
	a := got[0]
	if a.Runs != 2 || a.MeanDDR != 0.75 || a.MeanFirstDeath != 15 || a.TTREvents != 3 || a.MeanTTR != 4 {
		t.Errorf("unexpected model A summary %+v", a)
	}
	if !math.IsInf(a.MeanCollapse, 1) {
		t.Errorf("collapse never happened, want +Inf, got %v", a.MeanCollapse)
	}
	if b := got[1]; b.MeanCollapse != 3 || !math.IsInf(b.MeanFirstDeath, 1) {
		t.Errorf("unexpected model B summary %+v", b)
	}
}

func TestSummarizeStatic(t *testing.T) {
	attack := func(run int, lcc ...float64) []experiment.StaticRow {
		rows := make([]experiment.StaticRow, len(lcc))
		for i, v := range lcc {
			rows[i] = experiment.StaticRow{
				Model: "M", Strategy: static.TargetedDegree, RunID: run,
				Measurement: static.Measurement{Step: i, NodesRemovedFraction: float64(i) / 4, LCC: v},
			}
		}
		return rows
	}
	rows := append(attack(0, 1, 0.75, 0.5, 0.25, 0), attack(1, 1, 0.75, 0.25, 0.25, 0)...)

	got := summarizeStatic(rows)
	if len(got) != 1 {
		t.Fatalf("want one group, got %+v", got)
	}
	s := got[0]
	if s.Runs != 2 {
		t.Errorf("runs = %d, want 2", s.Runs)
	}
	// R index: run 0 = 1.5/4, run 1 = 1.25/4.
	if want := (1.5/4 + 1.25/4) / 2; math.Abs(s.Robustness-want) > 1e-12 {
		t.Errorf("robustness = %v, want %v", s.Robustness, want)
	}
	// First LCC below 0.5: run 0 at 3/4, run 1 at 2/4.
	if want := 0.625; math.Abs(s.Critical-want) > 1e-12 {
		t.Errorf("critical = %v, want %v", s.Critical, want)
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		v    float64
		prec int
		want string
	}{
		{math.Inf(1), 1, "never"},
		{0.12345, 3, "0.123"},
		{42, 1, "42.0"},
	}
	for _, tt := range tests {
		if got := formatMetric(tt.v, tt.prec); got != tt.want {
			t.Errorf("formatMetric(%v, %d) = %q, want %q", tt.v, tt.prec, got, tt.want)
		}
	}
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := logProgress(logging.NewJSONLogger(&buf, logging.InfoLevel), "dynamic sweep")
	for done := 1; done <= 20; done++ {
		progress(done, 20)
	}
	// One line per completed tenth, including the first call at tenth 0.
	if got := strings.Count(buf.String(), "dynamic sweep progress"); got != 11 {
		t.Errorf("logged %d progress lines, want 11", got)
	}
}

func TestProgressModel(t *testing.T) {
	cancelled := 0
	var m tea.Model = newProgressModel("dynamic sweep", func() { cancelled++ })

	m, _ = m.Update(progressMsg{done: 3, total: 4})
	if pm := m.(progressModel); pm.percent() != 0.75 {
		t.Errorf("percent = %v, want 0.75", pm.percent())
	}
	if !strings.Contains(m.View(), "3/4 runs") {
		t.Errorf("view is missing the run count: %q", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cancelled != 1 {
		t.Errorf("cancel called %d times, want 1", cancelled)
	}
	if !strings.Contains(m.View(), "cancelling") {
		t.Errorf("view should show cancellation: %q", m.View())
	}

	m, cmd := m.Update(sweepDoneMsg{})
	if cmd == nil {
		t.Error("a finished sweep should quit the program")
	}
	if !strings.Contains(m.View(), "done") {
		t.Errorf("view should show completion: %q", m.View())
	}
}

func TestSweepTracker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracker := &sweepTracker{}
	forwarded := 0
	progress := tracker.track(ctx, func(done, total int) { forwarded = done })
	progress(3, 10)

	s := tracker.state()
	if s.Done != 3 || s.Total != 10 || s.Cancelled {
		t.Errorf("unexpected state %+v", s)
	}
	if forwarded != 3 {
		t.Errorf("progress not forwarded, got %d", forwarded)
	}

	checker := newChecker(tracker, []report.Sink{report.NewFileSink(t.TempDir(), false)})
	if resp := checker.CheckReadiness(); resp.Status != health.StatusHealthy {
		t.Errorf("running sweep should be ready, got %s", resp.Status)
	}

	cancel()
	if !tracker.state().Cancelled {
		t.Error("cancelled context should be reported")
	}
	if resp := checker.Check(); resp.Status != health.StatusDegraded {
		t.Errorf("cancelled sweep should be degraded, got %s", resp.Status)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
