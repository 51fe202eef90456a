// Package logging configures the process-wide logger and hands out
// component-tagged loggers.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var root = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.Stamp,
}).With().Timestamp().Logger()

// Setup sets the global log level. Quiet suppresses everything below
// warnings.
func Setup(quiet bool) {
	if quiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// New returns a logger tagged with a component name.
func New(component string) zerolog.Logger {
	if component == "" {
		return root
	}
	return root.With().Str("component", component).Logger()
}
