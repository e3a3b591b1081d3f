// Package kaltime turns free-form timestamp strings into instants with an
// explicit UTC offset.
//
// A Resolver tries the formats of a format.Registry in order and returns the
// first one that matches both the shape of the input and the calendar. Inputs
// without any zone indicator are resolved by the resolver's NaiveZone policy,
// which is AssumeUTC unless configured otherwise; the process's local zone is
// never consulted. The exception is a naive input that leaves out date fields,
// such as "9h" or "10:30": resolved against a reference it takes the
// reference's offset, so it lands on the reference's local day. A timespan
// stop without a zone therefore shares its start's offset.
package kaltime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/kaltime/format"
)

// NaiveZone decides the offset of inputs that carry no zone indicator.
type NaiveZone struct {
	reject bool
	offset int
}

var (
	// AssumeUTC resolves naive inputs at offset zero. It is the default.
	AssumeUTC = NaiveZone{}

	// RejectNaive fails naive inputs with *AmbiguousOffsetError.
	RejectNaive = NaiveZone{reject: true}
)

// AssumeOffset resolves naive inputs at a fixed offset in minutes east of UTC.
func AssumeOffset(minutes int) NaiveZone { return NaiveZone{offset: minutes} }

// Rejects reports whether naive inputs fail.
func (z NaiveZone) Rejects() bool { return z.reject }

func (z NaiveZone) String() string {
	switch {
	case z.reject:
		return "reject"
	case z.offset == 0:
		return "utc"
	default:
		return offsetName(z.offset)
	}
}

// ParseNaiveZone reads "utc", "reject" or a "+HH:MM" offset.
func ParseNaiveZone(s string) (NaiveZone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utc", "z":
		return AssumeUTC, nil
	case "reject":
		return RejectNaive, nil
	}
	s = strings.TrimSpace(s)
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return NaiveZone{}, fmt.Errorf("naive zone %q: want utc, reject or +HH:MM", s)
	}
	hh, err1 := strconv.Atoi(s[1:3])
	mm, err2 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil || hh > 23 || mm > 59 {
		return NaiveZone{}, fmt.Errorf("naive zone %q: invalid offset", s)
	}
	minutes := hh*60 + mm
	if s[0] == '-' {
		minutes = -minutes
	}
	return AssumeOffset(minutes), nil
}

// Extractor is the field-extraction backend of a Resolver. Extract is the
// structural step and Validate the calendar step; the resolver owns ordering,
// zone policy and error aggregation.
type Extractor interface {
	Extract(f format.TimestampFormat, s string) (format.Fields, error)
	Validate(p format.Fields) error
}

type patternExtractor struct{}

func (patternExtractor) Extract(f format.TimestampFormat, s string) (format.Fields, error) {
	return f.Match(s)
}

func (patternExtractor) Validate(p format.Fields) error { return p.Validate() }

// Resolver parses strings against an ordered registry. A Resolver is
// immutable and safe for concurrent use.
type Resolver struct {
	registry  *format.Registry
	naive     NaiveZone
	sink      EventSink
	extractor Extractor
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry sets the formats to try. The default is format.Default().
func WithRegistry(reg *format.Registry) Option {
	return func(r *Resolver) { r.registry = reg }
}

// WithNaiveZone sets the policy for inputs without a zone indicator.
func WithNaiveZone(z NaiveZone) Option {
	return func(r *Resolver) { r.naive = z }
}

// WithSink sets the receiver of per-attempt events.
func WithSink(s EventSink) Option {
	return func(r *Resolver) { r.sink = s }
}

// WithLogger sends per-attempt events to log at trace level. zerolog also
// filters by its global level, which defaults to debug, so callers must
// lower it with zerolog.SetGlobalLevel(zerolog.TraceLevel) to see the events.
func WithLogger(log zerolog.Logger) Option {
	return WithSink(LogSink(log))
}

// WithExtractor replaces the pattern-based field extraction.
func WithExtractor(e Extractor) Option {
	return func(r *Resolver) { r.extractor = e }
}

// NewResolver returns a resolver using format.Default(), AssumeUTC and no
// event sink unless options say otherwise.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		registry:  format.Default(),
		naive:     AssumeUTC,
		sink:      nopSink{},
		extractor: patternExtractor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = format.Default()
	}
	if r.sink == nil {
		r.sink = nopSink{}
	}
	if r.extractor == nil {
		r.extractor = patternExtractor{}
	}
	return r
}

// Registry returns the formats r tries, in order.
func (r *Resolver) Registry() *format.Registry { return r.registry }

// NaiveZone returns r's policy for inputs without a zone indicator.
func (r *Resolver) NaiveZone() NaiveZone { return r.naive }

var (
	defaultResolver   = NewResolver()
	referenceResolver = NewResolver(WithRegistry(format.WithPartial()))
)

// Parse resolves input against format.Default() with the AssumeUTC policy.
func Parse(input string) (ParsedInstant, error) {
	return defaultResolver.Parse(input)
}

// ParseWithReference resolves input against format.WithPartial(), taking
// fields the input leaves out from ref.
func ParseWithReference(input string, ref ParsedInstant) (ParsedInstant, error) {
	return referenceResolver.ParseWithReference(input, ref)
}

// Parse resolves input without a reference instant. Formats that leave out
// date fields fail with ErrIncomplete.
func (r *Resolver) Parse(input string) (ParsedInstant, error) {
	return r.resolve(input, nil)
}

// ParseWithReference resolves input, taking fields the input leaves out from
// ref as seen at the resolved offset. Fields smaller than the smallest one
// present are set to their minimum instead, so "9h" means 09:00:00 on ref's
// day at ref's offset. An empty input yields ref itself.
func (r *Resolver) ParseWithReference(input string, ref ParsedInstant) (ParsedInstant, error) {
	if strings.TrimSpace(input) == "" {
		return ref, nil
	}
	return r.resolve(input, &ref)
}

func (r *Resolver) resolve(input string, ref *ParsedInstant) (ParsedInstant, error) {
	s := strings.TrimSpace(input)
	n := r.registry.Len()
	attempts := make([]Attempt, 0, n)

	for i := 0; i < n; i++ {
		inst, a := r.try(r.registry.At(i), s, ref)
		r.sink.Attempt(a.event(s))
		switch a.Outcome {
		case Success:
			return inst, nil
		case AmbiguousOffset:
			return ParsedInstant{}, a.Err
		}
		attempts = append(attempts, a)
	}
	return ParsedInstant{}, &NoMatchError{Input: s, Attempts: attempts}
}

func (r *Resolver) try(f format.TimestampFormat, s string, ref *ParsedInstant) (ParsedInstant, Attempt) {
	fail := func(o Outcome, err error) (ParsedInstant, Attempt) {
		return ParsedInstant{}, Attempt{Format: f, Outcome: o, Err: err}
	}

	fields, err := r.extractor.Extract(f, s)
	if err != nil {
		return fail(StructuralMismatch, err)
	}
	if err := r.extractor.Validate(fields); err != nil {
		return fail(SemanticMismatch, err)
	}

	if fields.HasEpoch {
		return newInstant(time.Unix(fields.Epoch, 0).UTC(), 0), Attempt{Format: f, Outcome: Success}
	}

	offset, ok := r.offset(f, fields, ref)
	if !ok {
		return fail(AmbiguousOffset, &AmbiguousOffsetError{Input: s, Format: f.ID()})
	}

	fields, err = complete(fields, ref, offset)
	if err != nil {
		return fail(SemanticMismatch, err)
	}
	if err := r.extractor.Validate(fields); err != nil {
		return fail(SemanticMismatch, err)
	}

	wall := time.Date(
		fields.Get(format.Year), time.Month(fields.Get(format.Month)), fields.Get(format.Day),
		fields.Get(format.Hour), fields.Get(format.Minute), fields.Get(format.Second),
		fields.Get(format.Nanosecond), time.UTC)
	return newInstant(wall.Add(-time.Duration(offset)*time.Minute), offset), Attempt{Format: f, Outcome: Success}
}

// offset picks the offset of a match. A naive partial match resolved against
// a reference takes the reference's offset; other naive matches follow the
// NaiveZone policy.
func (r *Resolver) offset(f format.TimestampFormat, p format.Fields, ref *ParsedInstant) (int, bool) {
	switch p.Zone {
	case format.ZoneUTC:
		return 0, true
	case format.ZoneOffset:
		return p.Offset, true
	}
	if r.naive.reject {
		return 0, false
	}
	if ref != nil && !f.Complete() {
		return ref.offset, true
	}
	return r.naive.offset, true
}

// complete fills the fields p leaves out. Walking from nanoseconds up, missing
// fields are set to their minimum until the first present field; missing
// fields above it come from ref.
func complete(p format.Fields, ref *ParsedInstant, offset int) (format.Fields, error) {
	var wall time.Time
	if ref != nil {
		wall = ref.wall(offset)
	}

	var missing []format.Field
	zeroes := true
	for _, f := range format.AscendingFields {
		switch {
		case p.Has(f):
			zeroes = false
		case zeroes:
			p.Set(f, minimum(f))
		case ref != nil:
			p.Set(f, fieldOf(wall, f))
		default:
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return p, &incompleteError{missing: missing}
	}
	return p, nil
}

func minimum(f format.Field) int {
	switch f {
	case format.Year:
		return 1970
	case format.Month, format.Day:
		return 1
	default:
		return 0
	}
}

func fieldOf(t time.Time, f format.Field) int {
	switch f {
	case format.Year:
		return t.Year()
	case format.Month:
		return int(t.Month())
	case format.Day:
		return t.Day()
	case format.Hour:
		return t.Hour()
	case format.Minute:
		return t.Minute()
	case format.Second:
		return t.Second()
	default:
		return t.Nanosecond()
	}
}
