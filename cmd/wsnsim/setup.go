package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/wsn-resilience/pkg/config"
	"github.com/dd0wney/wsn-resilience/pkg/health"
	"github.com/dd0wney/wsn-resilience/pkg/logging"
	"github.com/dd0wney/wsn-resilience/pkg/metrics"
	"github.com/dd0wney/wsn-resilience/pkg/report"
)

// changed reports whether a flag was set on the command line. Flags that the
// command does not define count as unset.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// loadConfig reads --config, or the reference experiment, and applies the
// global flag overrides. Command-specific overrides are applied by apply,
// after which the result is validated again.
func loadConfig(cmd *cobra.Command, apply func(*config.Config)) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if changed(cmd, "workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if changed(cmd, "runs") {
		cfg.RunsPerSetting, _ = flags.GetInt("runs")
	}
	if changed(cmd, "nodes") {
		cfg.NumNodes, _ = flags.GetInt("nodes")
	}
	if changed(cmd, "seed") {
		cfg.BaseSeed, _ = flags.GetUint64("seed")
	}
	if changed(cmd, "compress") {
		cfg.Output.Compress, _ = flags.GetBool("compress")
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from LOG_LEVEL and --log-level
// and installs it as the default.
func newLogger(cmd *cobra.Command, w io.Writer) logging.Logger {
	logger := logging.NewLoggerFromEnv(w)
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		logger.SetLevel(logging.ParseLevel(level))
	}
	logging.SetDefaultLogger(logger)
	return logger
}

// openSinks returns the configured result destinations. The local files are
// always written; S3 and Postgres are added when configured.
func openSinks(ctx context.Context, cmd *cobra.Command, cfg *config.Config, sweepID uuid.UUID) ([]report.Sink, error) {
	outDir, _ := cmd.Flags().GetString("out-dir")
	out := cfg.Output
	sinks := []report.Sink{report.NewFileSink(outDir, out.Compress)}

	if out.S3Bucket != "" {
		client, err := report.NewS3Client(ctx, report.S3Options{
			Region:          out.S3Region,
			Endpoint:        out.S3Endpoint,
			AccessKeyID:     out.S3AccessKeyID,
			SecretAccessKey: out.S3SecretAccessKey,
		})
		if err != nil {
			return nil, errors.Join(err, report.CloseAll(sinks))
		}
		sinks = append(sinks, report.NewS3Sink(client, out.S3Bucket, out.S3Prefix, out.Compress))
	}

	if out.PostgresURL != "" {
		pg, err := report.NewPostgresSink(ctx, out.PostgresURL, sweepID)
		if err != nil {
			return nil, errors.Join(err, report.CloseAll(sinks))
		}
		sinks = append(sinks, pg)
	}
	return sinks, nil
}

// writeTables hands every table to every sink and closes the sinks.
func writeTables(ctx context.Context, logger logging.Logger, sinks []report.Sink, tables ...*report.Table) error {
	err := report.WriteAll(ctx, sinks, tables...)
	err = errors.Join(err, report.CloseAll(sinks))
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	for _, t := range tables {
		logger.Info("table written", logging.String("table", t.Name), logging.Count(len(t.Rows)))
	}
	return nil
}

// abortSweep closes the sinks of a failed sweep without writing to them and
// reports the sweep error together with any close failures.
func abortSweep(kind string, sinks []report.Sink, err error) error {
	return fmt.Errorf("%s sweep failed: %w", kind, errors.Join(err, report.CloseAll(sinks)))
}

// serveMetrics exposes the registry and the health checks on the configured
// address until the returned stop function is called. It is a no-op without
// listen_addr.
func serveMetrics(cfg config.MetricsConfig, registry *metrics.Registry, checker *health.Checker, logger logging.Logger) (stop func()) {
	if cfg.ListenAddr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	mux.Handle("/healthz", checker.Handler())
	mux.Handle("/readyz", checker.ReadinessHandler())
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Error(err))
		}
	}()
	logger.Info("serving metrics", logging.String("addr", cfg.ListenAddr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", logging.Error(err))
		}
	}
}

// dumpMetrics writes the registry to the configured textfile, if any.
func dumpMetrics(cfg config.MetricsConfig, registry *metrics.Registry, logger logging.Logger) error {
	if cfg.Textfile == "" {
		return nil
	}
	registry.UpdateSystemMetrics()
	if err := registry.WriteTextfile(cfg.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	logger.Debug("metrics textfile written", logging.Path(cfg.Textfile))
	return nil
}
