package separation

import (
	"os"

	"github.com/rs/zerolog"
)

// Reporter is the diagnostic sink for the separation pipeline. Messages are
// observational and fire-and-forget: an implementation must never block or
// fail the computation.
type Reporter interface {
	Report(format string, args ...interface{})
}

// NopReporter discards all diagnostic messages.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(string, ...interface{}) {}

// LogReporter forwards diagnostic messages to a zerolog logger.
type LogReporter struct {
	Logger zerolog.Logger
}

// Report implements Reporter.
func (r LogReporter) Report(format string, args ...interface{}) {
	r.Logger.Info().Msgf(format, args...)
}

// NewConsoleReporter returns a LogReporter writing human-readable output to
// stdout. Verbose lowers the level threshold to include debug events from the
// same logger when callers reuse it.
func NewConsoleReporter(verbose bool) LogReporter {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return LogReporter{Logger: logger}
}
