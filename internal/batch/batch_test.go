package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/kaltime"
	"github.com/gyeh/kaltime/internal/config"
	"github.com/gyeh/kaltime/internal/model"
)

var testRef = kaltime.FromTime(time.Date(2025, 10, 27, 6, 0, 0, 0, time.UTC))

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func decodeRows(t *testing.T, out *bytes.Buffer) []model.ResolvedRow {
	t.Helper()
	var rows []model.ResolvedRow
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var r model.ResolvedRow
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		rows = append(rows, r)
	}
	require.NoError(t, sc.Err())
	return rows
}

func TestRun_Lines(t *testing.T) {
	cfg := config.Default()
	cfg.FilePath = writeLines(t,
		"2024-03-15T10:30:00+02:00",
		"",
		"10:15",
		"2024-13-01T00:00:00Z",
		"not a date",
		"@1704150000",
	)

	var out bytes.Buffer
	summary, err := Run(context.Background(), zerolog.Nop(), &cfg, testRef, &out)
	require.NoError(t, err)

	assert.Equal(t, int64(6), summary.RowsRead)
	assert.Equal(t, int64(1), summary.RowsSkipped)
	assert.Equal(t, int64(3), summary.RowsResolved)
	assert.Equal(t, int64(2), summary.RowsFailed)
	assert.False(t, summary.AllResolved())
	assert.Equal(t, map[string]int64{"rfc3339": 1, "time-minute": 1, "epoch": 1}, summary.RowsByFormat)
	assert.Equal(t, map[string]int64{FailOutOfRange: 1, FailNoMatch: 1}, summary.RowsByOutcome)
	assert.Len(t, summary.FileSHA256, 64)
	assert.NotEmpty(t, summary.BatchID)
	assert.Empty(t, summary.Column)
	assert.Zero(t, summary.RowsExpected)

	rows := decodeRows(t, &out)
	require.Len(t, rows, 5)

	assert.Equal(t, int64(1), rows[0].Row)
	assert.Equal(t, "2024-03-15T10:30:00+02:00", rows[0].Instant)
	require.NotNil(t, rows[0].Unix)
	assert.Equal(t, int64(1710491400), *rows[0].Unix)

	assert.Equal(t, int64(3), rows[1].Row)
	assert.Equal(t, "2025-10-27T10:15:00+00:00", rows[1].Instant)
	assert.Equal(t, "time-minute", rows[1].Format)

	assert.Equal(t, int64(4), rows[2].Row)
	assert.Empty(t, rows[2].Instant)
	assert.Nil(t, rows[2].Unix)
	assert.Contains(t, rows[2].Error, "month 13 out of range")

	assert.Contains(t, rows[3].Error, `could not parse time string "not a date"`)
	assert.Equal(t, "epoch", rows[4].Format)
}

func TestRun_RejectNaive(t *testing.T) {
	cfg := config.Default()
	cfg.NaiveZone = "reject"
	cfg.FilePath = writeLines(t, "2024-03-15 10:30", "2024-03-15T10:30:00Z")

	var out bytes.Buffer
	summary, err := Run(context.Background(), zerolog.Nop(), &cfg, testRef, &out)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.RowsResolved)
	assert.Equal(t, map[string]int64{FailAmbiguousOffset: 1}, summary.RowsByOutcome)
}

func TestRun_CustomFormats(t *testing.T) {
	cfg := config.Default()
	cfg.Partial = false
	cfg.NaiveZone = "-05:00"
	cfg.Formats = []config.FormatSpec{{ID: "us", Pattern: "%m/%d/%Y %H:%M"}}
	cfg.FilePath = writeLines(t, "03/15/2024 10:30", "2024-03-15")

	var out bytes.Buffer
	summary, err := Run(context.Background(), zerolog.Nop(), &cfg, testRef, &out)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"us": 1}, summary.RowsByFormat)
	rows := decodeRows(t, &out)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-15T10:30:00-05:00", rows[0].Instant)
	assert.NotEmpty(t, rows[1].Error)
}

func TestRun_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[model.TimestampRow](f)
	_, err = w.Write([]model.TimestampRow{
		{ID: 1, Timestamp: "2024-03-15T10:30:00Z", Epoch: 1710498600},
		{ID: 2, Timestamp: "yesterday", Epoch: 0},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.FilePath = path

	var out bytes.Buffer
	summary, err := Run(context.Background(), zerolog.Nop(), &cfg, testRef, &out)
	require.NoError(t, err)
	assert.Equal(t, "timestamp", summary.Column)
	assert.Equal(t, int64(2), summary.RowsExpected)
	assert.Equal(t, summary.RowsExpected, summary.RowsRead)
	assert.Equal(t, int64(1), summary.RowsResolved)
	assert.Equal(t, int64(1), summary.RowsFailed)

	cfg.Column = "epoch"
	out.Reset()
	summary, err = Run(context.Background(), zerolog.Nop(), &cfg, testRef, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.RowsResolved)
	assert.Equal(t, map[string]int64{"epoch": 2}, summary.RowsByFormat)

	rows := decodeRows(t, &out)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-15T10:30:00+00:00", rows[0].Instant)
	assert.Equal(t, "1970-01-01T00:00:00+00:00", rows[1].Instant)
}

func TestRun_PreflightErrors(t *testing.T) {
	cfg := config.Default()
	cfg.FilePath = filepath.Join(t.TempDir(), "missing.txt")

	_, err := Run(context.Background(), zerolog.Nop(), &cfg, testRef, &bytes.Buffer{})
	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "preflight", pe.Phase)

	cfg.FilePath = writeLines(t, "2024-03-15")
	cfg.NaiveZone = "local"
	_, err = Run(context.Background(), zerolog.Nop(), &cfg, testRef, &bytes.Buffer{})
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "preflight", pe.Phase)
}

func TestRun_Cancelled(t *testing.T) {
	lines := make([]string, 3*readBatchSize)
	for i := range lines {
		lines[i] = "2024-03-15"
	}
	cfg := config.Default()
	cfg.FilePath = writeLines(t, lines...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, zerolog.Nop(), &cfg, testRef, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_WriteError(t *testing.T) {
	cfg := config.Default()
	cfg.FilePath = writeLines(t, "2024-03-15", "2024-03-16")

	_, err := Run(context.Background(), zerolog.Nop(), &cfg, testRef, failingWriter{})
	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "write", pe.Phase)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFailureKind(t *testing.T) {
	_, err := kaltime.Parse("2024-02-30")
	assert.Equal(t, FailOutOfRange, FailureKind(err))

	_, err = kaltime.Parse("soon")
	assert.Equal(t, FailNoMatch, FailureKind(err))

	r := kaltime.NewResolver(kaltime.WithNaiveZone(kaltime.RejectNaive))
	_, err = r.Parse("2024-02-03")
	assert.Equal(t, FailAmbiguousOffset, FailureKind(err))
}

func TestFileHash(t *testing.T) {
	path := writeLines(t, "abc")
	got, err := FileHash(path)
	require.NoError(t, err)
	// sha256 of "abc\n"
	assert.Equal(t, "edeaaff3f1774ad2888673770c6d64097e391bc362d7d6fb34982ddf0efd18cb", got)

	_, err = FileHash(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
