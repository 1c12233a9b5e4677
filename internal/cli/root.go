// Package cli defines the casemap command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/conflictwatch/casemap/internal/config"
	"github.com/conflictwatch/casemap/internal/observability"
	"github.com/conflictwatch/casemap/internal/pipeline"
	"github.com/conflictwatch/casemap/internal/repository"
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "casemap",
	Short: "Casemap - incident dataset pipeline and map API",
	Long: `Casemap loads a CSV of geospatial incident cases, validates and
normalizes it, applies region/status/year filters, and serves the result
to map and table frontends over HTTP, or exports it from the command line.

The dataset is a fourteen-column CSV; run "casemap sample" to create a
starter file, and "casemap check" to audit an existing one.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("casemap v0.3.0")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, serveCmd, exportCmd, checkCmd, sampleCmd)
}

// app bundles the wiring every subcommand needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	svc     *pipeline.Service
}

// newApp loads config and wires the pipeline. Only the long-running
// serve command registers metrics with the default registry; one-shot
// commands never expose /metrics.
func newApp(registerMetrics bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(cfg)

	var metrics *observability.Metrics
	if registerMetrics {
		metrics = observability.NewMetrics()
	} else {
		metrics = observability.NewMetricsForTesting()
	}

	repo := repository.NewCachedRepository(
		repository.NewCSVRepository(cfg.CSVPath, cfg.CSVFallbackPath),
		cfg.CacheTTL,
	)
	svc := pipeline.New(repo, logger, metrics)

	return &app{cfg: cfg, logger: logger, metrics: metrics, svc: svc}, nil
}
