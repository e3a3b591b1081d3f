package exitcode

const (
	Success         = 0
	UsageError      = 1
	ConfigError     = 2
	NoMatch         = 3
	AmbiguousOffset = 4
	ReadError       = 5
	PartialSuccess  = 6
)
