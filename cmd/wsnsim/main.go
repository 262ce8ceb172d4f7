package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wsnsim",
		Short: "Wireless sensor network resilience simulator",
		Long: `wsnsim measures how sensor network topologies degrade.

The dynamic sweep simulates energy depletion, scheduled node failures and
link flapping while routing packets to the sink. The static sweep removes
nodes one at a time (randomly or by degree/betweenness) and records how
connectivity collapses.

Without --config the reference experiment is used.`,
		SilenceUsage: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Experiment YAML file")
	pf.Int("workers", 0, "Runs executed in parallel (0 = one per CPU)")
	pf.Int("runs", 0, "Runs per model (overrides num_runs_per_setting)")
	pf.Int("nodes", 0, "Nodes per generated topology (overrides num_nodes)")
	pf.Uint64("seed", 0, "Base seed; run r uses seed+r (overrides base_seed)")
	pf.String("out-dir", ".", "Directory the CSV tables are written to")
	pf.Bool("compress", false, "Snappy-compress CSV output")
	pf.String("log-level", "", "Log level: debug, info, warn or error (default from LOG_LEVEL)")
	pf.Bool("no-progress", false, "Log progress lines instead of drawing a progress bar")

	rootCmd.AddCommand(
		newVersionCmd(),
		newDynamicCmd(),
		newStaticCmd(),
		newGenerateCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wsnsim version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
