package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/wsn-resilience/pkg/config"
	"github.com/dd0wney/wsn-resilience/pkg/experiment"
	"github.com/dd0wney/wsn-resilience/pkg/logging"
	"github.com/dd0wney/wsn-resilience/pkg/metrics"
	"github.com/dd0wney/wsn-resilience/pkg/report"
)

func newDynamicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dynamic",
		Short: "Run the dynamic degradation sweep",
		Long: `Simulate every configured topology model for num_runs_per_setting runs.

Each run drains node energy, forces periodic node failures, flaps links and
routes packets between random pairs of operational nodes. A per-step time
series and a per-run summary are written as CSV.

Examples:
  wsnsim dynamic                          # reference experiment
  wsnsim dynamic --runs 10 --steps 200    # quick look
  wsnsim dynamic --config exp.yaml --compute-ac`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if changed(cmd, "steps") {
					cfg.Dynamic.Steps, _ = cmd.Flags().GetInt("steps")
				}
				if changed(cmd, "compute-ac") {
					cfg.Dynamic.ComputeAlgebraicConnectivity, _ = cmd.Flags().GetBool("compute-ac")
				}
				if changed(cmd, "timeseries") {
					cfg.Output.TimeSeries, _ = cmd.Flags().GetString("timeseries")
				}
				if changed(cmd, "summary") {
					cfg.Output.Summary, _ = cmd.Flags().GetString("summary")
				}
			})
			if err != nil {
				return err
			}
			return runDynamic(cmd.Context(), cmd, cfg, newLogger(cmd, os.Stderr))
		},
	}

	cmd.Flags().Int("steps", 0, "Steps per run (overrides dynamic.steps)")
	cmd.Flags().Bool("compute-ac", false, "Record the algebraic connectivity of the LCC every step")
	cmd.Flags().String("timeseries", "", "Time-series table name (overrides output.timeseries)")
	cmd.Flags().String("summary", "", "Summary table name (overrides output.summary)")

	return cmd
}

func runDynamic(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger logging.Logger) error {
	sweep, _ := experiment.FromConfig(cfg)
	registry := metrics.NewRegistry()

	sweepID := uuid.New()
	sinks, err := openSinks(ctx, cmd, cfg, sweepID)
	if err != nil {
		return err
	}

	tracker := &sweepTracker{}
	stopMetrics := serveMetrics(cfg.Metrics, registry, newChecker(tracker, sinks), logger)
	defer stopMetrics()

	var result *experiment.DynamicResult
	err = runSweep(ctx, cmd, logger, "dynamic sweep", func(ctx context.Context, logger logging.Logger, progress experiment.ProgressFunc) error {
		runner := experiment.NewRunner(
			experiment.WithLogger(logger),
			experiment.WithMetrics(registry),
			experiment.WithProgress(tracker.track(ctx, progress)),
			experiment.WithSweepID(sweepID),
		)
		var err error
		result, err = runner.RunDynamic(ctx, sweep)
		return err
	})
	if err != nil {
		return abortSweep("dynamic", sinks, err)
	}

	err = writeTables(ctx, logger, sinks,
		report.TimeSeriesTable(cfg.Output.TimeSeries, result.TimeSeries),
		report.SummaryTable(cfg.Output.Summary, result.Summaries),
	)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderDynamicSummary(summarizeDynamic(result.Summaries)))
	return dumpMetrics(cfg.Metrics, registry, logger)
}
