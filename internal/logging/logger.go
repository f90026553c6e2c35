// ABOUTME: Configured zerolog logger for moodlog.
// ABOUTME: Logs to stderr so CLI output on stdout and the TUI stay clean; disabled unless a level is set.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at the given level ("debug", "info", ...).
// An empty or unknown level disables logging.
func New(serviceName, level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, serviceName, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, serviceName, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// ParseLevel maps a config string onto a zerolog level, defaulting to disabled.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.Disabled
	}
	return lvl
}
