package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gyeh/kaltime/format"
	"github.com/gyeh/kaltime/internal/exitcode"
	"github.com/gyeh/kaltime/internal/logging"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the active format registry in priority order",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	reg, err := cfg.Compile()
	if err != nil {
		log.Error().Err(err).Msg("invalid format registry")
		os.Exit(exitcode.ConfigError)
	}

	if err := listFormats(os.Stdout, reg); err != nil {
		return err
	}

	for _, s := range reg.Shadowed() {
		log.Warn().Str("format", s.Format).Str("shadowed_by", s.ShadowBy).Msg("unreachable format")
	}
	return nil
}

// listFormats writes reg as a table in priority order.
func listFormats(out io.Writer, reg *format.Registry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tPATTERN\tZONE\tCOMPLETE")
	for i, f := range reg.Formats() {
		zone := "-"
		if f.ExpectsOffset() {
			zone = "yes"
		}
		complete := "no"
		if f.Complete() {
			complete = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, f.ID(), f.Pattern(), zone, complete)
	}
	return w.Flush()
}
