package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/kaltime"
	"github.com/gyeh/kaltime/internal/exitcode"
)

var timespanCmd = &cobra.Command{
	Use:   "timespan START[..STOP]",
	Short: "Resolve a time range",
	Long: "Resolves START against the reference and STOP against START. " +
		"Without STOP the span lasts one day.",
	Example: `  ktparse timespan "2025-10-27 10:30..11:30"
  ktparse timespan 10:15..30`,
	Args: cobra.ExactArgs(1),
	RunE: runTimespan,
}

func init() {
	rootCmd.AddCommand(timespanCmd)
}

func runTimespan(cmd *cobra.Command, args []string) error {
	log, resolver, ref := setup()

	span, err := resolver.ParseTimespan(args[0], ref)
	if err != nil {
		log.Error().Err(err).Str("input", args[0]).Msg("could not resolve timespan")
		if errors.Is(err, kaltime.ErrReversedSpan) {
			os.Exit(exitcode.UsageError)
		}
		os.Exit(exitCodeFor(err))
	}

	fmt.Println(display(span.Start))
	fmt.Println(display(span.Stop))
	return nil
}
