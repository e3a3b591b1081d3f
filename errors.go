package kaltime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gyeh/kaltime/format"
)

var (
	// ErrNoMatch is wrapped by *NoMatchError.
	ErrNoMatch = errors.New("no format matched")

	// ErrAmbiguousOffset is wrapped by *AmbiguousOffsetError.
	ErrAmbiguousOffset = errors.New("ambiguous offset")

	// ErrIncomplete marks a match that lacks date fields and had no
	// reference instant to take them from.
	ErrIncomplete = errors.New("incomplete date")

	// ErrReversedSpan is returned by ParseTimespan when stop precedes start.
	ErrReversedSpan = errors.New("timespan ends before it starts")

	// Re-exported so callers can test with errors.Is without importing format.
	ErrStructural = format.ErrStructural
	ErrOutOfRange = format.ErrOutOfRange
)

// NoMatchError is returned when every format in the registry failed. Attempts
// holds one entry per format, in registry order.
//
// errors.Is(err, ErrOutOfRange) holds when at least one format matched the
// shape of the input but rejected a field value, e.g. month 13.
type NoMatchError struct {
	Input    string
	Attempts []Attempt
}

func (e *NoMatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not parse time string %q: tried %d formats", e.Input, len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %s: %v", a.Format.ID(), a.Outcome, a.Err)
	}
	return b.String()
}

func (e *NoMatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts)+1)
	errs = append(errs, ErrNoMatch)
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// OutOfRange returns the first attempt that failed on a field value.
func (e *NoMatchError) OutOfRange() (Attempt, bool) {
	for _, a := range e.Attempts {
		if errors.Is(a.Err, ErrOutOfRange) {
			return a, true
		}
	}
	return Attempt{}, false
}

// AmbiguousOffsetError is returned when a format matched an input without a
// zone indicator and the resolver's naive zone policy rejects such inputs.
type AmbiguousOffsetError struct {
	Input  string
	Format string
}

func (e *AmbiguousOffsetError) Error() string {
	return fmt.Sprintf("time string %q matched %s but carries no offset", e.Input, e.Format)
}

func (e *AmbiguousOffsetError) Unwrap() error { return ErrAmbiguousOffset }

// incompleteError names the fields a partial match could not fill.
type incompleteError struct {
	missing []format.Field
}

func (e *incompleteError) Error() string {
	names := make([]string, len(e.missing))
	for i, f := range e.missing {
		names[i] = f.String()
	}
	return "missing " + strings.Join(names, ", ") + " and no reference to take it from"
}

func (e *incompleteError) Unwrap() error { return ErrIncomplete }
