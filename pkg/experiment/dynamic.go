package experiment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/wsn-resilience/pkg/dynamic"
	"github.com/dd0wney/wsn-resilience/pkg/logging"
	"github.com/dd0wney/wsn-resilience/pkg/metrics"
	"github.com/dd0wney/wsn-resilience/pkg/parallel"
)

// DynamicSweep runs the degradation simulator over every model and run.
type DynamicSweep struct {
	Sweep
	Params dynamic.Params
}

// TimeSeriesRow is one step of one run.
type TimeSeriesRow struct {
	Model string
	RunID int
	dynamic.StepRecord
}

// SummaryRow is the summary of one run.
type SummaryRow struct {
	Model string
	RunID int
	Seed  uint64
	dynamic.Summary
}

// DynamicResult holds the tables of a dynamic sweep, ordered by model (as
// configured), then run id, then step.
type DynamicResult struct {
	SweepID    uuid.UUID
	TimeSeries []TimeSeriesRow
	Summaries  []SummaryRow
}

type dynamicRun struct {
	series  []TimeSeriesRow
	summary SummaryRow
}

// RunDynamic executes the sweep on a worker pool. Cancelling ctx stops runs
// that have not started; started runs complete. On error the partial
// result is discarded.
func (r *Runner) RunDynamic(ctx context.Context, sweep DynamicSweep) (*DynamicResult, error) {
	if err := sweep.check(); err != nil {
		return nil, err
	}
	if err := sweep.Params.Validate(); err != nil {
		return nil, err
	}

	id, logger := r.begin(metrics.KindDynamic)
	total := len(sweep.Models) * sweep.Runs
	timer := logging.StartTimer(logger, "dynamic sweep complete", logging.Count(total))
	logger.Info("dynamic sweep started",
		logging.Count(total), logging.Int("steps", sweep.Params.Steps), logging.Int("workers", sweep.Workers),
		logging.Bool("algebraic_connectivity", sweep.Params.ComputeAlgebraicConnectivity))

	pool, err := parallel.NewWorkerPool(sweep.Workers, parallel.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	runs, err := parallel.RunOrdered(ctx, pool, total, func(_ context.Context, i int) (dynamicRun, error) {
		model := sweep.Models[i/sweep.Runs]
		return r.dynamicRun(logger, sweep, model, i%sweep.Runs, total)
	})
	if r.metrics != nil {
		r.metrics.RecordSweep(metrics.KindDynamic, err)
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	res := &DynamicResult{
		SweepID:    id,
		TimeSeries: make([]TimeSeriesRow, 0, total*sweep.Params.Steps),
		Summaries:  make([]SummaryRow, 0, total),
	}
	for _, run := range runs {
		res.TimeSeries = append(res.TimeSeries, run.series...)
		res.Summaries = append(res.Summaries, run.summary)
	}
	timer.End()
	return res, nil
}

func (r *Runner) dynamicRun(logger logging.Logger, sweep DynamicSweep, model Model, runID, total int) (dynamicRun, error) {
	seed := sweep.Seed(runID)
	runLogger := logger.With(logging.Model(model.Name), logging.RunID(runID), logging.Seed(seed))

	if r.metrics != nil {
		r.metrics.RunStarted()
	}
	start := time.Now()
	out, stats, err := simulate(runLogger, sweep, model, runID, seed)
	if r.metrics != nil {
		r.metrics.RecordRun(metrics.KindDynamic, model.Name, time.Since(start), err)
		if err == nil {
			r.metrics.RecordDynamicRun(stats)
		}
	}
	if err != nil {
		return dynamicRun{}, err
	}

	runLogger.Debug("run complete",
		logging.Latency(time.Since(start)), logging.Float64("ddr", out.summary.DDRFinal))
	r.runFinished(total)
	return out, nil
}

func simulate(logger logging.Logger, sweep DynamicSweep, model Model, runID int, seed uint64) (dynamicRun, metrics.RunStats, error) {
	g, err := GenerateTopology(model, sweep.NumNodes, seed)
	if err != nil {
		return dynamicRun{}, metrics.RunStats{}, err
	}
	sim, err := dynamic.New(g, sweep.Params, seed, dynamic.WithLogger(logger))
	if err != nil {
		return dynamicRun{}, metrics.RunStats{}, err
	}
	res := sim.Run()

	out := dynamicRun{
		series:  make([]TimeSeriesRow, len(res.Records)),
		summary: SummaryRow{Model: model.Name, RunID: runID, Seed: seed, Summary: res.Summary},
	}
	for i, rec := range res.Records {
		out.series[i] = TimeSeriesRow{Model: model.Name, RunID: runID, StepRecord: rec}
	}
	return out, runStats(res), nil
}

func runStats(res *dynamic.Result) metrics.RunStats {
	stats := metrics.RunStats{
		Steps:      len(res.Records),
		NodeDeaths: res.DeadNodes,
	}
	if n := len(res.Records); n > 0 {
		stats.DeliveredPackets = res.Records[n-1].SuccessfulPackets
		stats.TotalPackets = res.Records[n-1].TotalPackets
	}
	for _, ev := range res.Events {
		if ev.Resolved() {
			stats.ResolvedTTREvents++
		} else {
			stats.UnresolvedTTREvents++
		}
	}
	return stats
}
