package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spektr-org/carmarket/config"
	"github.com/spektr-org/carmarket/pipeline"
)

// Version is set at build time.
var Version = "0.3.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "carmarket",
		Short: "UK second-hand car market analysis",
		Long: `carmarket reads a used-car listings CSV, cleans it, and writes an HTML
dashboard plus one page per chart: median price by year of manufacture,
median price by mileage, price distribution by brand and listings per brand.

Running carmarket with no subcommand is the same as "carmarket run".`,
		Args:          cobra.NoArgs,
		RunE:          runAnalysis,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.Flags())

	root.AddCommand(newRunCommand())
	root.AddCommand(newInspectCommand())
	root.AddCommand(newVersionCommand(Version))
	return root
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Clean the listings and write the dashboard",
		Example: `  carmarket run -i car_sales_data.csv -o site
  carmarket run --top-brands 5 --xlsx
  CARMARKET_LOADER=duckdb carmarket run`,
		Args: cobra.NoArgs,
		RunE: runAnalysis,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runAnalysis(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	if cfg.File != "" {
		logger.Debug("using config file", "path", cfg.File)
	}

	report, err := pipeline.Run(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

// newLogger writes structured logs to w; debug level with --verbose.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Verbose {
		opts.Level = slog.LevelDebug
	}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
