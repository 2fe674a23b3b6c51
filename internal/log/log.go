// Package log provides the logging infrastructure for enginectl.
//
// Loggers are created once at command startup and passed to components
// explicitly; no package stores a global logger. Output always goes to
// stderr so that stdout stays reserved for command output.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a type alias for *slog.Logger. Components accept log.Logger
// as a constructor dependency and may add context via With().
type Logger = *slog.Logger

// Config defines logger configuration options.
type Config struct {
	// Level sets the minimum log level. Default: slog.LevelInfo.
	Level slog.Level

	// AddSource adds source file information to log entries.
	AddSource bool
}

// New creates a logger writing to os.Stderr.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w. Useful in tests for
// capturing output to a buffer.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}))
}

// NewNop creates a logger that discards all output. Intended for tests
// only; production code should use New or NewWithWriter.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
