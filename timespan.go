package kaltime

import (
	"fmt"
	"strings"
	"time"
)

// spanSeparator splits "start..stop".
const spanSeparator = ".."

// DefaultSpan is the length of a timespan given as a single value.
const DefaultSpan = 24 * time.Hour

// Timespan is a half-open interval [Start, Stop).
type Timespan struct {
	Start ParsedInstant
	Stop  ParsedInstant
}

func (t Timespan) String() string { return t.Start.String() + spanSeparator + t.Stop.String() }

// Duration returns Stop - Start.
func (t Timespan) Duration() time.Duration { return t.Stop.UTC().Sub(t.Start.UTC()) }

// ParseTimespan resolves "start..stop" with the package's reference resolver.
func ParseTimespan(input string, ref ParsedInstant) (Timespan, error) {
	return referenceResolver.ParseTimespan(input, ref)
}

// ParseTimespan resolves "start..stop". The start is parsed against ref and
// the stop against the parsed start, so "10:15..30" ends at 10:30 on the same
// day. A single value spans DefaultSpan from its start.
func (r *Resolver) ParseTimespan(input string, ref ParsedInstant) (Timespan, error) {
	var span Timespan
	head, tail, found := strings.Cut(input, spanSeparator)

	start, err := r.ParseWithReference(head, ref)
	if err != nil {
		return Timespan{}, fmt.Errorf("timespan start: %w", err)
	}
	span.Start = start

	if !found {
		span.Stop = start.Add(DefaultSpan)
		return span, nil
	}

	stop, err := r.ParseWithReference(tail, start)
	if err != nil {
		return Timespan{}, fmt.Errorf("timespan stop: %w", err)
	}
	span.Stop = stop

	if stop.Before(start) {
		return Timespan{}, fmt.Errorf("invalid timespan %q: end %s is before start %s: %w",
			input, stop, start, ErrReversedSpan)
	}
	return span, nil
}
