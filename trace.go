package kaltime

import (
	"github.com/rs/zerolog"

	"github.com/gyeh/kaltime/format"
)

// Outcome classifies one format attempt.
type Outcome uint8

const (
	Success Outcome = iota
	StructuralMismatch
	SemanticMismatch
	AmbiguousOffset
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case StructuralMismatch:
		return "structural_mismatch"
	case SemanticMismatch:
		return "semantic_mismatch"
	case AmbiguousOffset:
		return "ambiguous_offset"
	default:
		return "unknown"
	}
}

// Attempt records how one format fared against an input.
type Attempt struct {
	Format  format.TimestampFormat
	Outcome Outcome
	Err     error // nil on Success
}

// Event is the diagnostic record emitted for every attempt.
type Event struct {
	Input    string
	FormatID string
	Pattern  string
	Outcome  Outcome
	Reason   string
}

// EventSink receives one Event per attempted format. Sinks only observe;
// they cannot change the result of a parse. Implementations must be safe
// for concurrent use when the resolver is shared.
type EventSink interface {
	Attempt(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Attempt(ev Event) { f(ev) }

type nopSink struct{}

func (nopSink) Attempt(Event) {}

// LogSink writes each event as a zerolog trace record. The records only
// appear when zerolog's global level is trace; see WithLogger.
func LogSink(log zerolog.Logger) EventSink {
	return logSink{log: log}
}

type logSink struct {
	log zerolog.Logger
}

func (s logSink) Attempt(ev Event) {
	e := s.log.Trace().
		Str("input", ev.Input).
		Str("format_id", ev.FormatID).
		Str("pattern", ev.Pattern).
		Str("outcome", ev.Outcome.String())
	if ev.Reason != "" {
		e = e.Str("reason", ev.Reason)
	}
	e.Msg("format attempt")
}

func (a Attempt) event(input string) Event {
	ev := Event{
		Input:    input,
		FormatID: a.Format.ID(),
		Pattern:  a.Format.Pattern(),
		Outcome:  a.Outcome,
	}
	if a.Err != nil {
		ev.Reason = a.Err.Error()
	}
	return ev
}
