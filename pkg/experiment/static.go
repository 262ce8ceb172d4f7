package experiment

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/wsn-resilience/pkg/logging"
	"github.com/dd0wney/wsn-resilience/pkg/metrics"
	"github.com/dd0wney/wsn-resilience/pkg/parallel"
	"github.com/dd0wney/wsn-resilience/pkg/static"
)

// StaticSweep runs every attack strategy against every model and run.
type StaticSweep struct {
	Sweep
	Strategies []static.Strategy
	Options    static.Options
}

// StaticRow is one measurement of one attack.
type StaticRow struct {
	Model    string
	Strategy static.Strategy
	RunID    int
	static.Measurement
}

// StaticResult holds the rows of a static sweep ordered by model, strategy,
// run id and removal step.
type StaticResult struct {
	SweepID uuid.UUID
	Rows    []StaticRow
}

// RunStatic executes the attack sweep on a worker pool. Every strategy of a
// run attacks the same topology.
func (r *Runner) RunStatic(ctx context.Context, sweep StaticSweep) (*StaticResult, error) {
	if err := sweep.check(); err != nil {
		return nil, err
	}
	if len(sweep.Strategies) == 0 {
		return nil, ErrEmptySweep
	}

	id, logger := r.begin(metrics.KindStatic)
	perModel := len(sweep.Strategies) * sweep.Runs
	total := len(sweep.Models) * perModel
	timer := logging.StartTimer(logger, "static sweep complete", logging.Count(total))
	logger.Info("static sweep started", logging.Count(total), logging.Int("workers", sweep.Workers))

	pool, err := parallel.NewWorkerPool(sweep.Workers, parallel.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	attacks, err := parallel.RunOrdered(ctx, pool, total, func(_ context.Context, i int) ([]StaticRow, error) {
		model := sweep.Models[i/perModel]
		strategy := sweep.Strategies[(i%perModel)/sweep.Runs]
		return r.staticRun(logger, sweep, model, strategy, i%sweep.Runs, total)
	})
	if r.metrics != nil {
		r.metrics.RecordSweep(metrics.KindStatic, err)
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	res := &StaticResult{SweepID: id}
	for _, rows := range attacks {
		res.Rows = append(res.Rows, rows...)
	}
	timer.End()
	return res, nil
}

func (r *Runner) staticRun(logger logging.Logger, sweep StaticSweep, model Model, strategy static.Strategy, runID, total int) ([]StaticRow, error) {
	seed := sweep.Seed(runID)
	runLogger := logger.With(logging.Model(model.Name), logging.Strategy(string(strategy)),
		logging.RunID(runID), logging.Seed(seed))

	if r.metrics != nil {
		r.metrics.RunStarted()
	}
	start := time.Now()
	rows, err := attack(sweep, model, strategy, runID, seed)
	if r.metrics != nil {
		r.metrics.RecordRun(metrics.KindStatic, model.Name, time.Since(start), err)
		if err == nil {
			r.metrics.RecordStaticAttack(string(strategy), len(rows)-1)
		}
	}
	if err != nil {
		return nil, err
	}

	runLogger.Debug("attack complete", logging.Latency(time.Since(start)), logging.Count(len(rows)-1))
	r.runFinished(total)
	return rows, nil
}

func attack(sweep StaticSweep, model Model, strategy static.Strategy, runID int, seed uint64) ([]StaticRow, error) {
	g, err := GenerateTopology(model, sweep.NumNodes, seed)
	if err != nil {
		return nil, err
	}
	res, err := static.Attack(g, strategy, sweep.Options, rand.New(rand.NewPCG(seed, attackStream)))
	if err != nil {
		return nil, err
	}

	rows := make([]StaticRow, len(res.Measurements))
	for i, m := range res.Measurements {
		rows[i] = StaticRow{Model: model.Name, Strategy: strategy, RunID: runID, Measurement: m}
	}
	return rows, nil
}
