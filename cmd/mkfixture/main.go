// mkfixture writes a Parquet file of timestamp strings in a mix of layouts,
// for exercising `ktparse batch`.
// Usage: go run ./cmd/mkfixture --out testdata/timestamps.parquet --rows 200
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/kaltime/internal/model"
)

// layouts pairs a bucket name with a Go layout producing inputs of that shape.
var layouts = []struct {
	name   string
	layout string
}{
	{name: "rfc3339", layout: "2006-01-02T15:04:05-07:00"},
	{name: "rfc3339-frac", layout: "2006-01-02T15:04:05.000-07:00"},
	{name: "rfc3339-utc", layout: "2006-01-02T15:04:05Z"},
	{name: "datetime", layout: "2006-01-02 15:04:05"},
	{name: "datetime-minute", layout: "2006-01-02 15:04"},
	{name: "date", layout: "2006-01-02"},
	{name: "time-minute", layout: "15:04"},
	{name: "hour", layout: "15h"},
}

// broken inputs that no registry format accepts, or accepts with bad values.
var broken = []string{
	"2024-13-01T00:00:00Z",
	"2023-02-29",
	"not a date",
	"25:00",
	"",
}

func main() {
	out := flag.String("out", "testdata/timestamps.parquet", "output parquet")
	maxRows := flag.Int("rows", 200, "rows to output")
	seed := flag.Uint64("seed", 1, "random seed")
	brokenEvery := flag.Int("broken-every", 10, "make every Nth row unparseable (0 disables)")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("", 2*3600),
		time.FixedZone("", -5*3600),
		time.FixedZone("", 5*3600+30*60),
	}

	rows := make([]model.TimestampRow, 0, *maxRows)
	counts := make(map[string]int)
	for i := 0; i < *maxRows; i++ {
		at := base.Add(time.Duration(rng.Int64N(int64(2*365*24*time.Hour)))).Truncate(time.Second)
		row := model.TimestampRow{ID: int64(i + 1), Epoch: at.Unix()}

		if *brokenEvery > 0 && (i+1)%*brokenEvery == 0 {
			row.Timestamp = broken[rng.IntN(len(broken))]
			note := "broken"
			row.Note = &note
			counts["broken"]++
		} else {
			l := layouts[rng.IntN(len(layouts))]
			zone := zones[rng.IntN(len(zones))]
			if l.name == "rfc3339-utc" {
				zone = time.UTC
			}
			row.Timestamp = at.In(zone).Format(l.layout)
			counts[l.name]++
		}
		rows = append(rows, row)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	writer := goparquet.NewGenericWriter[model.TimestampRow](outFile)
	if _, err := writer.Write(rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close writer: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Printf("Wrote %d rows to %s\n", len(rows), *out)
	fmt.Println("Layout distribution:")
	for _, l := range layouts {
		if c := counts[l.name]; c > 0 {
			fmt.Printf("  %-16s %d\n", l.name, c)
		}
	}
	fmt.Printf("  %-16s %d\n", "broken", counts["broken"])
}
