package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/kaltime"
	"github.com/gyeh/kaltime/internal/config"
	"github.com/gyeh/kaltime/internal/exitcode"
)

// displayLayout is the human-readable form printed next to the epoch.
const displayLayout = "2006-01-02 15:04:05 -07:00"

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:               "ktparse",
	Short:             "Resolve human-written timestamps to instants",
	Long:              "Tries an ordered registry of timestamp formats against each input and prints the first match as an epoch and a fixed-offset time.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigPath, "config", os.Getenv("KALTIME_CONFIG"), "YAML format registry (or set KALTIME_CONFIG)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "", "Log level; trace logs every format attempt (default info)")
	pf.StringVar(&cfg.NaiveZone, "naive-zone", "", "Offset for inputs without one: utc, reject or +HH:MM (default utc)")
	pf.StringVar(&cfg.Reference, "reference", "", "Fully specified timestamp used to fill missing fields (default now)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if cfg.ConfigPath == "" {
		return nil
	}
	if err := cfg.LoadFromFile(cfg.ConfigPath); err != nil {
		fmt.Fprintf(os.Stderr, "config %s: %v\n", cfg.ConfigPath, err)
		os.Exit(exitcode.ConfigError)
	}
	return nil
}

// referenceResolver only accepts timestamps that fix an instant on their own.
var referenceResolver = kaltime.NewResolver(kaltime.WithNaiveZone(kaltime.RejectNaive))

// reference returns --reference, or the current time in the local zone.
func reference() (kaltime.ParsedInstant, error) {
	if cfg.Reference == "" {
		return kaltime.FromTime(time.Now()), nil
	}
	ref, err := referenceResolver.Parse(cfg.Reference)
	if err != nil {
		return kaltime.ParsedInstant{}, fmt.Errorf("--reference: %w", err)
	}
	return ref, nil
}

// display renders p as "<unix> <YYYY-MM-DD HH:MM:SS ±HH:MM>".
func display(p kaltime.ParsedInstant) string {
	return fmt.Sprintf("%d %s", p.Unix(), p.Format(displayLayout))
}
