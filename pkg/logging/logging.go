// Package logging configures zerolog for isurus.
//
// There is no package-level logger and no global state. Setup returns a
// logger value and callers hand it to whatever needs one, so two assemblers
// in one process can log at different levels to different destinations.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Setup returns a logger writing human-readable output to stderr.
// Verbosity maps 0 to warnings, 1 to info, 2 to debug and anything
// higher to trace.
func Setup(verbosity int) zerolog.Logger {
	return SetupWriter(verbosity, os.Stderr)
}

// SetupWriter is Setup with an explicit destination. Tests use it to
// capture log output.
func SetupWriter(verbosity int, out io.Writer) zerolog.Logger {
	var level zerolog.Level
	switch verbosity {
	case 0:
		level = zerolog.WarnLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.DebugLevel
	default:
		level = zerolog.TraceLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(out),
	}

	logger := zerolog.New(console).Level(level).With().Timestamp().Logger()

	// Caller information is only worth the noise when debugging.
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}

	logger.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
	return logger
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
