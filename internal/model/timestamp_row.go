package model

// TimestampRow is the Parquet layout written by mkfixture. Batch input may
// use any schema as long as the chosen column is a string or integer leaf.
type TimestampRow struct {
	ID        int64   `parquet:"id"`
	Timestamp string  `parquet:"timestamp"`
	Epoch     int64   `parquet:"epoch"`
	Note      *string `parquet:"note,optional"`
}

// ResolvedRow is one line of batch output.
type ResolvedRow struct {
	Row     int64  `json:"row"`
	Input   string `json:"input"`
	Instant string `json:"instant,omitempty"`
	Unix    *int64 `json:"unix,omitempty"`
	Format  string `json:"format,omitempty"`
	Error   string `json:"error,omitempty"`
}
