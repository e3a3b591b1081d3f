// Package format holds the timestamp patterns the resolver tries, in order.
//
// A pattern is a strftime-like template where every byte that is not part of
// a directive must appear verbatim in the input:
//
//	%Y  4-digit year           %H  hour (1-2 digits)
//	%m  month (1-2 digits)     %M  minute (1-2 digits)
//	%d  day (1-2 digits)       %S  second (1-2 digits)
//	%f  fraction (1-9 digits)  %s  signed Unix seconds, always UTC
//	%:z offset as +HH:MM       %z  offset as +HHMM
//	%Z  UTC marker (Z or UTC)  %%  a literal percent sign
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// token is one compiled directive of a pattern.
type token struct {
	field Field // valid when zone == ZoneNone and !epoch
	zone  Zone
	epoch bool
	colon bool // offset written as +HH:MM
}

// directive describes how a pattern directive matches input.
type directive struct {
	expr     string
	skeleton string
	tok      token
}

var directives = map[string]directive{
	"Y":  {expr: `(\d{4})`, skeleton: "Y", tok: token{field: Year}},
	"m":  {expr: `(\d{1,2})`, skeleton: "N", tok: token{field: Month}},
	"d":  {expr: `(\d{1,2})`, skeleton: "N", tok: token{field: Day}},
	"H":  {expr: `(\d{1,2})`, skeleton: "N", tok: token{field: Hour}},
	"M":  {expr: `(\d{1,2})`, skeleton: "N", tok: token{field: Minute}},
	"S":  {expr: `(\d{1,2})`, skeleton: "N", tok: token{field: Second}},
	"f":  {expr: `(\d{1,9})`, skeleton: "F", tok: token{field: Nanosecond}},
	"s":  {expr: `([+-]?\d{1,19})`, skeleton: "E", tok: token{epoch: true}},
	"Z":  {expr: `(Z|UTC)`, skeleton: "U", tok: token{zone: ZoneUTC}},
	"z":  {expr: `([+-]\d{4})`, skeleton: "O", tok: token{zone: ZoneOffset}},
	":z": {expr: `([+-]\d{2}:\d{2})`, skeleton: "C", tok: token{zone: ZoneOffset, colon: true}},
}

// TimestampFormat is a compiled pattern. The zero value matches nothing;
// build one with New.
type TimestampFormat struct {
	id       string
	pattern  string
	re       *regexp.Regexp
	tokens   []token
	skeleton string
	zone     Zone
	epoch    bool
	fields   FieldSet
}

// New compiles pattern into a TimestampFormat identified by id.
func New(id, pattern string) (TimestampFormat, error) {
	if id == "" {
		return TimestampFormat{}, fmt.Errorf("format %q: empty id", pattern)
	}
	if pattern == "" {
		return TimestampFormat{}, fmt.Errorf("format %s: empty pattern", id)
	}

	f := TimestampFormat{id: id, pattern: pattern}
	var expr, skel strings.Builder
	expr.WriteString("^")

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			expr.WriteString(regexp.QuoteMeta(string(c)))
			skel.WriteByte(c)
			continue
		}
		i++
		if i >= len(pattern) {
			return TimestampFormat{}, fmt.Errorf("format %s: dangling %% at end of pattern", id)
		}
		name := string(pattern[i])
		switch name {
		case "%":
			expr.WriteString("%")
			skel.WriteByte('%')
			continue
		case ":":
			if i+1 >= len(pattern) || pattern[i+1] != 'z' {
				return TimestampFormat{}, fmt.Errorf("format %s: %%: must be followed by z", id)
			}
			i++
			name = ":z"
		}
		d, ok := directives[name]
		if !ok {
			return TimestampFormat{}, fmt.Errorf("format %s: unknown directive %%%s", id, name)
		}
		switch {
		case d.tok.epoch:
			if f.epoch {
				return TimestampFormat{}, fmt.Errorf("format %s: %%s appears twice", id)
			}
			f.epoch = true
		case d.tok.zone != ZoneNone:
			if f.zone != ZoneNone {
				return TimestampFormat{}, fmt.Errorf("format %s: more than one zone directive", id)
			}
			f.zone = d.tok.zone
		default:
			if f.fields.Has(d.tok.field) {
				return TimestampFormat{}, fmt.Errorf("format %s: %s appears twice", id, d.tok.field)
			}
			f.fields = f.fields.With(d.tok.field)
		}
		f.tokens = append(f.tokens, d.tok)
		expr.WriteString(d.expr)
		// Skeleton bytes are escaped so they never collide with literals.
		skel.WriteString("\x00" + d.skeleton)
	}
	expr.WriteString("$")

	if f.epoch && (f.fields != 0 || f.zone != ZoneNone) {
		return TimestampFormat{}, fmt.Errorf("format %s: %%s cannot be combined with other fields", id)
	}
	if !f.epoch && f.fields == 0 {
		return TimestampFormat{}, fmt.Errorf("format %s: pattern has no date or time fields", id)
	}
	if f.fields.Has(Nanosecond) && !f.fields.Has(Second) {
		return TimestampFormat{}, fmt.Errorf("format %s: %%f requires %%S", id)
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return TimestampFormat{}, fmt.Errorf("format %s: %w", id, err)
	}
	f.re = re
	f.skeleton = skel.String()
	return f, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// registries built from constant patterns.
func MustNew(id, pattern string) TimestampFormat {
	f, err := New(id, pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// ID returns the format's identifier.
func (f TimestampFormat) ID() string { return f.id }

// Pattern returns the pattern the format was compiled from.
func (f TimestampFormat) Pattern() string { return f.pattern }

// ExpectsOffset reports whether inputs matching f carry their own zone,
// either a UTC marker, a signed offset, or epoch seconds.
func (f TimestampFormat) ExpectsOffset() bool { return f.zone != ZoneNone || f.epoch }

// Fields returns the set of calendar fields the pattern captures.
func (f TimestampFormat) Fields() FieldSet { return f.fields }

// Complete reports whether the pattern fixes a calendar date on its own.
func (f TimestampFormat) Complete() bool {
	return f.epoch || f.fields.Has(Year) && f.fields.Has(Month) && f.fields.Has(Day)
}

func (f TimestampFormat) String() string { return f.id + " (" + f.pattern + ")" }

// Match is the structural check: it reports whether s has the shape of the
// pattern and, if so, returns the captured fields. Values are not checked
// against the calendar here; see Fields.Validate.
func (f TimestampFormat) Match(s string) (Fields, error) {
	if f.re == nil {
		return Fields{}, &MismatchError{Format: f.id, Reason: "format not compiled"}
	}
	groups := f.re.FindStringSubmatch(s)
	if groups == nil {
		return Fields{}, &MismatchError{Format: f.id, Reason: "input does not have the shape " + strconv.Quote(f.pattern)}
	}

	var out Fields
	for i, tok := range f.tokens {
		raw := groups[i+1]
		switch {
		case tok.epoch:
			sec, err := strconv.ParseInt(raw, 10, 64)
			out.Epoch = sec
			out.HasEpoch = true
			out.epochOverflow = err != nil
			out.epochRaw = raw
			out.Zone = ZoneUTC
		case tok.zone == ZoneUTC:
			out.Zone = ZoneUTC
		case tok.zone == ZoneOffset:
			out.Zone = ZoneOffset
			out.Offset, out.offsetHours, out.offsetMinutes = splitOffset(raw, tok.colon)
		case tok.field == Nanosecond:
			// Right-pad to nine digits so ".5" means 500ms.
			n, _ := strconv.Atoi(raw + strings.Repeat("0", 9-len(raw)))
			out.Set(Nanosecond, n)
		default:
			n, _ := strconv.Atoi(raw)
			out.Set(tok.field, n)
		}
	}
	return out, nil
}

// splitOffset decodes "+HH:MM" or "+HHMM". The regexp guarantees the shape.
func splitOffset(raw string, colon bool) (minutes, hh, mm int) {
	sign := 1
	if raw[0] == '-' {
		sign = -1
	}
	digits := raw[1:]
	if colon {
		digits = strings.Replace(digits, ":", "", 1)
	}
	hh, _ = strconv.Atoi(digits[:2])
	mm, _ = strconv.Atoi(digits[2:])
	return sign * (hh*60 + mm), hh, mm
}
