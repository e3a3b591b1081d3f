package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/kaltime/internal/exitcode"
	"github.com/gyeh/kaltime/internal/model"
)

var (
	timeISO  bool
	timeJSON bool
)

var timeCmd = &cobra.Command{
	Use:   "time TIMESTAMP...",
	Short: "Resolve timestamps to instants",
	Example: `  ktparse time 2024-03-15T10:30:00+02:00
  ktparse time --reference 2025-10-27T06:00:00Z 9h 30m "20 14:00"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTime,
}

func init() {
	f := timeCmd.Flags()
	f.BoolVar(&timeISO, "iso", false, "Print the canonical RFC 3339 form")
	f.BoolVar(&timeJSON, "json", false, "Print one JSON object per input")
	rootCmd.AddCommand(timeCmd)
}

func runTime(cmd *cobra.Command, args []string) error {
	log, resolver, ref := setup()
	enc := json.NewEncoder(os.Stdout)

	code := exitcode.Success
	for i, input := range args {
		p, err := resolver.ParseWithReference(input, ref)
		if timeJSON {
			rec := model.ResolvedRow{Row: int64(i + 1), Input: input}
			if err != nil {
				rec.Error = err.Error()
			} else {
				unix := p.Unix()
				rec.Instant = p.String()
				rec.Unix = &unix
			}
			if encErr := enc.Encode(rec); encErr != nil {
				return encErr
			}
		}
		if err != nil {
			log.Error().Err(err).Str("input", input).Msg("could not resolve")
			code = exitCodeFor(err)
			continue
		}
		switch {
		case timeJSON:
		case timeISO:
			fmt.Println(p.String())
		default:
			fmt.Println(display(p))
		}
	}
	if code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}
