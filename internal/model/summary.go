package model

import "time"

// BatchSummary captures metrics from a single batch resolve run.
type BatchSummary struct {
	FilePath      string
	FileSHA256    string
	BatchID       string
	Column        string // empty for line input
	RowsExpected  int64 // Parquet row count; 0 for line input
	RowsRead      int64
	RowsSkipped   int64 // blank or null cells
	RowsResolved  int64
	RowsFailed    int64
	RowsByFormat  map[string]int64 // winning format id -> rows
	RowsByOutcome map[string]int64 // failure kind -> rows
	DurationRead  time.Duration
	DurationTotal time.Duration
}

// NewBatchSummary returns a summary with its maps allocated.
func NewBatchSummary(path string) *BatchSummary {
	return &BatchSummary{
		FilePath:      path,
		RowsByFormat:  make(map[string]int64),
		RowsByOutcome: make(map[string]int64),
	}
}

// AllResolved reports whether every non-blank row resolved.
func (s *BatchSummary) AllResolved() bool {
	return s.RowsFailed == 0
}
