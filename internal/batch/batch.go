package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/kaltime"
	"github.com/gyeh/kaltime/internal/config"
	"github.com/gyeh/kaltime/internal/model"
)

const readBatchSize = 1024

// Failure kinds counted in BatchSummary.RowsByOutcome.
const (
	FailNoMatch         = "no_match"
	FailOutOfRange      = "out_of_range"
	FailAmbiguousOffset = "ambiguous_offset"
)

// PhaseError wraps an error with the phase where it occurred.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

type inputRow struct {
	num   int64
	input string
}

// Run resolves every row of cfg.FilePath against ref and writes one JSON
// line per row to out. Rows that fail to resolve are counted and reported,
// not returned as errors.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, ref kaltime.ParsedInstant, out io.Writer) (*model.BatchSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()
	log = log.With().Str("batch_id", batchID.String()).Logger()

	// Phase 1: Preflight
	summary := model.NewBatchSummary(cfg.FilePath)
	summary.BatchID = batchID.String()
	if IsParquet(cfg.FilePath) {
		summary.Column = cfg.Column
	}

	sha, err := FileHash(cfg.FilePath)
	if err != nil {
		return nil, &PhaseError{Phase: "preflight", Err: err}
	}
	summary.FileSHA256 = sha

	reg, err := cfg.Registry()
	if err != nil {
		return nil, &PhaseError{Phase: "preflight", Err: err}
	}
	zone, err := cfg.Zone()
	if err != nil {
		return nil, &PhaseError{Phase: "preflight", Err: err}
	}

	var matched string
	trace := kaltime.LogSink(log)
	resolver := kaltime.NewResolver(
		kaltime.WithRegistry(reg),
		kaltime.WithNaiveZone(zone),
		kaltime.WithSink(kaltime.SinkFunc(func(ev kaltime.Event) {
			trace.Attempt(ev)
			if ev.Outcome == kaltime.Success {
				matched = ev.FormatID
			}
		})),
	)

	src, err := openSource(cfg.FilePath, cfg.Column)
	if err != nil {
		return nil, &PhaseError{Phase: "preflight", Err: err}
	}
	defer src.Close()

	ev := log.Info().
		Str("file", cfg.FilePath).
		Str("sha256", sha).
		Int("formats", reg.Len()).
		Str("naive_zone", zone.String()).
		Str("reference", ref.String())
	if sized, ok := src.(interface{ NumRows() int64 }); ok {
		summary.RowsExpected = sized.NumRows()
		ev = ev.Int64("rows_expected", summary.RowsExpected)
	}
	ev.Msg("starting batch")

	// Phase 2: Read and resolve
	ch := make(chan inputRow, readBatchSize)
	errCh := make(chan error, 1)
	var readDur time.Duration

	// Producer goroutine: read cells → push to channel
	go func() {
		defer close(ch)
		readStart := time.Now()
		defer func() { readDur = time.Since(readStart) }()
		buf := make([]string, readBatchSize)
		var rowNum int64

		for {
			n, readErr := src.Read(buf)
			for i := 0; i < n; i++ {
				rowNum++
				select {
				case ch <- inputRow{num: rowNum, input: buf[i]}:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				errCh <- fmt.Errorf("read input at row %d: %w", rowNum, readErr)
				return
			}
		}
		errCh <- nil
	}()

	// Consumer: resolve each row and write it out
	enc := json.NewEncoder(out)
	var writeErr error
	for row := range ch {
		summary.RowsRead++
		if strings.TrimSpace(row.input) == "" {
			summary.RowsSkipped++
			continue
		}
		if writeErr != nil {
			continue
		}

		matched = ""
		rec := model.ResolvedRow{Row: row.num, Input: row.input}
		p, err := resolver.ParseWithReference(row.input, ref)
		if err != nil {
			kind := FailureKind(err)
			summary.RowsFailed++
			summary.RowsByOutcome[kind]++
			rec.Error = err.Error()
			log.Debug().Err(err).Int64("row", row.num).Str("kind", kind).Msg("row unresolved")
		} else {
			unix := p.Unix()
			summary.RowsResolved++
			summary.RowsByFormat[matched]++
			rec.Instant = p.String()
			rec.Unix = &unix
			rec.Format = matched
		}
		if err := enc.Encode(rec); err != nil {
			writeErr = fmt.Errorf("write row %d: %w", row.num, err)
		}
	}

	// Wait for producer to finish
	if prodErr := <-errCh; prodErr != nil {
		return nil, &PhaseError{Phase: "read", Err: prodErr}
	}
	if writeErr != nil {
		return nil, &PhaseError{Phase: "write", Err: writeErr}
	}

	summary.DurationRead = readDur
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_resolved", summary.RowsResolved).
		Int64("rows_failed", summary.RowsFailed).
		Int64("rows_skipped", summary.RowsSkipped).
		Str("duration", summary.DurationTotal.String()).
		Float64("rows_per_sec", float64(summary.RowsRead)/summary.DurationTotal.Seconds()).
		Msg("batch complete")

	return summary, nil
}

// FailureKind names the reason a row did not resolve.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, kaltime.ErrAmbiguousOffset):
		return FailAmbiguousOffset
	case errors.Is(err, kaltime.ErrOutOfRange):
		return FailOutOfRange
	default:
		return FailNoMatch
	}
}
