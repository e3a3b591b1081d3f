package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/kaltime/internal/batch"
	"github.com/gyeh/kaltime/internal/config"
	"github.com/gyeh/kaltime/internal/exitcode"
	"github.com/gyeh/kaltime/internal/logging"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve every timestamp in a text file or Parquet column",
	Long: "Reads one timestamp per line, or one per row of --column when the file " +
		"ends in .parquet, and prints one JSON object per row.",
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to a text or Parquet file (required)")
	f.StringVar(&cfg.Column, "column", cfg.Column, "Parquet column holding timestamps")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if code, err := validateBatch(&cfg); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(code)
	}

	ref, err := reference()
	if err != nil {
		log.Error().Err(err).Msg("invalid reference")
		os.Exit(exitcode.UsageError)
	}

	summary, err := batch.Run(ctx, log, &cfg, ref, os.Stdout)
	if err != nil {
		var pe *batch.PhaseError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("batch failed")
			switch pe.Phase {
			case "preflight":
				os.Exit(exitcode.ConfigError)
			default:
				os.Exit(exitcode.ReadError)
			}
		}
		log.Error().Err(err).Msg("batch failed")
		os.Exit(exitcode.ReadError)
	}

	fmt.Fprintf(os.Stderr, "Batch complete: %d resolved, %d failed, %d skipped of %d rows (%.1fs)\n",
		summary.RowsResolved, summary.RowsFailed, summary.RowsSkipped, summary.RowsRead,
		summary.DurationTotal.Seconds())
	printCounts(summary.RowsByFormat, "")
	printCounts(summary.RowsByOutcome, "! ")

	if !summary.AllResolved() {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

// validateBatch checks c and returns the exit code for the first problem:
// ConfigError for options and registry, UsageError for the input file.
func validateBatch(c *config.Config) (int, error) {
	if err := c.Validate(); err != nil {
		return exitcode.ConfigError, err
	}
	if err := c.ValidateFile(); err != nil {
		return exitcode.UsageError, err
	}
	return exitcode.Success, nil
}

func printCounts(counts map[string]int64, prefix string) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(os.Stderr, "  %-24s %d\n", prefix+k, counts[k])
	}
}
