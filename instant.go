package kaltime

import (
	"fmt"
	"time"
)

// canonicalLayout renders an explicit offset even for UTC ("+00:00").
const canonicalLayout = "2006-01-02T15:04:05.999999999-07:00"

// ParsedInstant is a resolved point in time together with the offset the
// input carried. Values are comparable with ==.
type ParsedInstant struct {
	utc    time.Time // always in time.UTC, no monotonic reading
	offset int       // minutes east of UTC
}

// FromTime builds a ParsedInstant from t, keeping t's offset truncated to
// whole minutes. It is the usual way to turn a clock reading into a
// reference for ParseWithReference.
func FromTime(t time.Time) ParsedInstant {
	_, secs := t.Zone()
	return newInstant(t.UTC().Round(0), secs/60)
}

func newInstant(utc time.Time, offset int) ParsedInstant {
	return ParsedInstant{utc: utc, offset: offset}
}

// IsZero reports whether p is the zero ParsedInstant.
func (p ParsedInstant) IsZero() bool { return p.utc.IsZero() && p.offset == 0 }

// Offset returns the offset from UTC in minutes; positive is east.
func (p ParsedInstant) Offset() int { return p.offset }

// UTC returns the instant in UTC.
func (p ParsedInstant) UTC() time.Time { return p.utc }

// Unix returns the instant as Unix seconds.
func (p ParsedInstant) Unix() int64 { return p.utc.Unix() }

// Time returns the instant in a fixed zone matching Offset.
func (p ParsedInstant) Time() time.Time {
	if p.offset == 0 {
		return p.utc
	}
	return p.utc.In(time.FixedZone(offsetName(p.offset), p.offset*60))
}

// Equal reports whether p and q denote the same instant with the same offset.
func (p ParsedInstant) Equal(q ParsedInstant) bool {
	return p.utc.Equal(q.utc) && p.offset == q.offset
}

// Before reports whether p is strictly earlier than q.
func (p ParsedInstant) Before(q ParsedInstant) bool { return p.utc.Before(q.utc) }

// Add returns p shifted by d, keeping its offset.
func (p ParsedInstant) Add(d time.Duration) ParsedInstant {
	return newInstant(p.utc.Add(d), p.offset)
}

// String renders p as ISO-8601 with an explicit offset. The result parses
// back to an equal ParsedInstant.
func (p ParsedInstant) String() string {
	return p.Time().Format(canonicalLayout)
}

// Format renders p with a Go time layout at p's offset.
func (p ParsedInstant) Format(layout string) string {
	return p.Time().Format(layout)
}

// MarshalText implements encoding.TextMarshaler.
func (p ParsedInstant) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (p *ParsedInstant) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// wall returns the wall clock of p at the given offset, as a UTC time.
func (p ParsedInstant) wall(offset int) time.Time {
	return p.utc.Add(time.Duration(offset) * time.Minute)
}

func offsetName(minutes int) string {
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
}
