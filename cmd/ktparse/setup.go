package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/gyeh/kaltime"
	"github.com/gyeh/kaltime/internal/exitcode"
	"github.com/gyeh/kaltime/internal/logging"
)

// setup validates cfg and returns the logger, the configured resolver and the
// reference instant, exiting on any error.
func setup() (zerolog.Logger, *kaltime.Resolver, kaltime.ParsedInstant) {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.ConfigError)
	}

	resolver, err := cfg.Resolver(log)
	if err != nil {
		log.Error().Err(err).Msg("build resolver failed")
		os.Exit(exitcode.ConfigError)
	}

	ref, err := reference()
	if err != nil {
		log.Error().Err(err).Msg("invalid reference")
		os.Exit(exitcode.UsageError)
	}
	return log, resolver, ref
}

// exitCodeFor maps a resolve error to a process exit code.
func exitCodeFor(err error) int {
	if errors.Is(err, kaltime.ErrAmbiguousOffset) {
		return exitcode.AmbiguousOffset
	}
	return exitcode.NoMatch
}
