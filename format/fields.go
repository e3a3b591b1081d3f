package format

import (
	"errors"
	"fmt"
	"time"
)

// Epoch seconds of 0000-01-01T00:00:00Z and 9999-12-31T23:59:59Z.
const (
	minEpoch = -62167219200
	maxEpoch = 253402300799
)

var (
	// ErrStructural is wrapped by errors for inputs whose shape does not fit a pattern.
	ErrStructural = errors.New("structural mismatch")

	// ErrOutOfRange is wrapped by errors for fields that matched the pattern
	// but are not valid calendar values.
	ErrOutOfRange = errors.New("out of range")
)

// Field names one calendar component.
type Field uint8

const (
	Year Field = iota
	Month
	Day
	Hour
	Minute
	Second
	Nanosecond

	numFields
)

var fieldNames = [numFields]string{"year", "month", "day", "hour", "minute", "second", "nanosecond"}

func (f Field) String() string {
	if f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", uint8(f))
}

// Smallest-first order used when completing partial inputs.
var AscendingFields = [...]Field{Nanosecond, Second, Minute, Hour, Day, Month, Year}

// FieldSet is a bitmask of Fields.
type FieldSet uint8

func (s FieldSet) Has(f Field) bool { return s&(1<<f) != 0 }

func (s FieldSet) With(f Field) FieldSet { return s | 1<<f }

// Zone says how an input expressed its offset from UTC.
type Zone uint8

const (
	ZoneNone   Zone = iota // no indicator at all
	ZoneUTC                // "Z", "UTC" or epoch seconds
	ZoneOffset             // explicit signed offset
)

func (z Zone) String() string {
	switch z {
	case ZoneUTC:
		return "utc"
	case ZoneOffset:
		return "offset"
	default:
		return "none"
	}
}

// Fields is what a structural match captured from an input.
type Fields struct {
	values  [numFields]int
	present FieldSet

	Epoch    int64
	HasEpoch bool

	Zone   Zone
	Offset int // minutes east of UTC, valid when Zone == ZoneOffset

	epochOverflow bool
	epochRaw      string
	offsetHours   int
	offsetMinutes int
}

// Get returns the value of f, or 0 when f was not captured.
func (p Fields) Get(f Field) int { return p.values[f] }

// Has reports whether f was captured or set.
func (p Fields) Has(f Field) bool { return p.present.Has(f) }

// Present returns the set of fields captured or set.
func (p Fields) Present() FieldSet { return p.present }

// Set stores v for f and marks it present.
func (p *Fields) Set(f Field, v int) {
	p.values[f] = v
	p.present = p.present.With(f)
}

// Validate checks every present field against the calendar. Day is checked
// against the month length only when year and month are both known.
func (p Fields) Validate() error {
	if p.HasEpoch {
		if p.epochOverflow {
			return &RangeError{Field: "epoch", Raw: p.epochRaw}
		}
		// Keep epoch results printable as a 4-digit year.
		if p.Epoch < minEpoch || p.Epoch > maxEpoch {
			return &RangeError{Field: "epoch", Raw: p.epochRaw}
		}
		return nil
	}

	if p.Zone == ZoneOffset {
		if p.offsetHours > 23 {
			return &RangeError{Field: "offset hours", Value: p.offsetHours, Min: 0, Max: 23}
		}
		if p.offsetMinutes > 59 {
			return &RangeError{Field: "offset minutes", Value: p.offsetMinutes, Min: 0, Max: 59}
		}
	}

	checks := []struct {
		f        Field
		min, max int
	}{
		{Month, 1, 12},
		{Day, 1, 31},
		{Hour, 0, 23},
		{Minute, 0, 59},
		{Second, 0, 59},
	}
	for _, c := range checks {
		if !p.Has(c.f) {
			continue
		}
		if v := p.Get(c.f); v < c.min || v > c.max {
			return &RangeError{Field: c.f.String(), Value: v, Min: c.min, Max: c.max}
		}
	}

	if p.Has(Year) && p.Has(Month) && p.Has(Day) {
		if last := DaysIn(p.Get(Year), time.Month(p.Get(Month))); p.Get(Day) > last {
			return &RangeError{Field: "day", Value: p.Get(Day), Min: 1, Max: last}
		}
	}
	return nil
}

// DaysIn returns the number of days in month m of year y.
func DaysIn(y int, m time.Month) int {
	switch m {
	case time.February:
		if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// MismatchError reports a structural mismatch against one format.
type MismatchError struct {
	Format string
	Reason string
}

func (e *MismatchError) Error() string { return e.Reason }

func (e *MismatchError) Unwrap() error { return ErrStructural }

// RangeError reports a field that is syntactically fine but not a valid value.
type RangeError struct {
	Field    string
	Value    int
	Min, Max int
	Raw      string // input text, reported instead of the bounds when set
}

func (e *RangeError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("%s %s out of range", e.Field, e.Raw)
	}
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }
