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
	"github.com/dd0wney/wsn-resilience/pkg/static"
)

func newStaticCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "static",
		Short: "Run the static node-removal attack sweep",
		Long: `Remove nodes one at a time from every configured topology and record
the largest component, signal smoothness and (optionally) algebraic
connectivity after each removal.

Strategies: random, targeted_degree, targeted_centrality.

Examples:
  wsnsim static
  wsnsim static --strategy targeted_degree --strategy random --runs 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var parseErr error
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if changed(cmd, "strategy") {
					names, _ := cmd.Flags().GetStringSlice("strategy")
					cfg.Static.Strategies, parseErr = parseStrategies(names)
				}
				if changed(cmd, "compute-ac") {
					cfg.Static.ComputeAlgebraicConnectivity, _ = cmd.Flags().GetBool("compute-ac")
				}
				if changed(cmd, "output") {
					cfg.Output.Static, _ = cmd.Flags().GetString("output")
				}
			})
			if parseErr != nil {
				return parseErr
			}
			if err != nil {
				return err
			}
			return runStatic(cmd.Context(), cmd, cfg, newLogger(cmd, os.Stderr))
		},
	}

	cmd.Flags().StringSlice("strategy", nil, "Attack strategies (overrides static.strategies)")
	cmd.Flags().Bool("compute-ac", false, "Record the algebraic connectivity of the LCC after each removal")
	cmd.Flags().String("output", "", "Static table name (overrides output.static)")

	return cmd
}

func parseStrategies(names []string) ([]static.Strategy, error) {
	out := make([]static.Strategy, 0, len(names))
	for _, name := range names {
		s, err := static.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func runStatic(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger logging.Logger) error {
	_, sweep := experiment.FromConfig(cfg)
	registry := metrics.NewRegistry()

	sweepID := uuid.New()
	sinks, err := openSinks(ctx, cmd, cfg, sweepID)
	if err != nil {
		return err
	}

	tracker := &sweepTracker{}
	stopMetrics := serveMetrics(cfg.Metrics, registry, newChecker(tracker, sinks), logger)
	defer stopMetrics()

	var result *experiment.StaticResult
	err = runSweep(ctx, cmd, logger, "static sweep", func(ctx context.Context, logger logging.Logger, progress experiment.ProgressFunc) error {
		runner := experiment.NewRunner(
			experiment.WithLogger(logger),
			experiment.WithMetrics(registry),
			experiment.WithProgress(tracker.track(ctx, progress)),
			experiment.WithSweepID(sweepID),
		)
		var err error
		result, err = runner.RunStatic(ctx, sweep)
		return err
	})
	if err != nil {
		return abortSweep("static", sinks, err)
	}

	if err := writeTables(ctx, logger, sinks, report.StaticTable(cfg.Output.Static, result.Rows)); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderStaticSummary(summarizeStatic(result.Rows)))
	return dumpMetrics(cfg.Metrics, registry, logger)
}
