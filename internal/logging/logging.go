// Package logging builds the structured logger shared by every yms component.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures New
type Options struct {
	Level   string
	Verbose bool
	Output  io.Writer
	Prefix  string
}

// New creates a logger. Verbose wins over Level; an unknown level falls back to info.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "yms"
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix: prefix,
	})
	logger.SetLevel(ParseLevel(opts.Level))
	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
	return logger
}

// ParseLevel converts a level name to a log.Level, defaulting to info
func ParseLevel(level string) log.Level {
	if level == "" {
		return log.InfoLevel
	}
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// Discard returns a logger that drops everything, for tests
func Discard() *log.Logger {
	return log.New(io.Discard)
}
