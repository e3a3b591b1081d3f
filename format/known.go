package format

// Known absolute formats, most specific first. Patterns carrying a zone come
// before their naive counterparts.
var absolute = []TimestampFormat{
	MustNew("rfc3339-frac", "%Y-%m-%dT%H:%M:%S.%f%:z"),
	MustNew("rfc3339-frac-utc", "%Y-%m-%dT%H:%M:%S.%f%Z"),
	MustNew("rfc3339", "%Y-%m-%dT%H:%M:%S%:z"),
	MustNew("rfc3339-utc", "%Y-%m-%dT%H:%M:%S%Z"),
	MustNew("iso-compact-offset", "%Y-%m-%dT%H:%M:%S%z"),
	MustNew("iso-frac-compact-offset", "%Y-%m-%dT%H:%M:%S.%f%z"),
	MustNew("datetime-offset", "%Y-%m-%d %H:%M:%S %:z"),
	MustNew("datetime-utc", "%Y-%m-%d %H:%M:%S %Z"),
	MustNew("datetime-minute-offset", "%Y-%m-%d %H:%M %:z"),
	MustNew("iso-minute-offset", "%Y-%m-%dT%H:%M%:z"),
	MustNew("iso-frac", "%Y-%m-%dT%H:%M:%S.%f"),
	MustNew("iso", "%Y-%m-%dT%H:%M:%S"),
	MustNew("datetime", "%Y-%m-%d %H:%M:%S"),
	MustNew("datetime-minute", "%Y-%m-%d %H:%M"),
	MustNew("date", "%Y-%m-%d"),
	MustNew("epoch", "@%s"),
}

// Partial formats leave out date fields and need a reference instant.
var partial = []TimestampFormat{
	MustNew("month-day-time", "%m-%d %H:%M:%S"),
	MustNew("month-day-minute", "%m-%d %H:%M"),
	MustNew("month-day", "%m-%d"),
	MustNew("month-day-slash", "%m/%d"),
	MustNew("day-minute", "%d %H:%M"),
	MustNew("day-hour-minute", "%d %Hh%M"),
	MustNew("day-hour", "%d %Hh"),
	MustNew("time", "%H:%M:%S"),
	MustNew("time-minute", "%H:%M"),
	MustNew("hour-minute", "%Hh%M"),
	MustNew("hour", "%Hh"),
	MustNew("minute-suffix", "%Mm"),
	MustNew("minute", "%M"),
}

var (
	defaultRegistry = MustRegistry(absolute...)
	partialRegistry = MustRegistry(append(append([]TimestampFormat{}, absolute...), partial...)...)
)

// Default returns the registry of formats that fix an instant on their own.
func Default() *Registry { return defaultRegistry }

// WithPartial returns Default followed by formats such as "%H:%M" or "%Mm"
// that only resolve against a reference instant.
func WithPartial() *Registry { return partialRegistry }

// Partial returns the partial formats alone, in priority order.
func Partial() []TimestampFormat {
	out := make([]TimestampFormat, len(partial))
	copy(out, partial)
	return out
}
