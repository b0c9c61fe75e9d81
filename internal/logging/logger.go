// Package logging builds the leveled loggers used across entropywalk.
//
// Headless commands log to stderr. The live view owns the terminal, so it
// logs to a file under the data directory instead (see OpenFile).
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a level name to a log.Level.
// Supported values: "debug", "info", "warn", "error" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New creates a leveled logger writing to w.
func New(level string, w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OpenFile creates a logger appending to dir/entropywalk.log. The returned
// close func must be called when done. If the file cannot be opened the
// logger discards output and the error is returned alongside it.
func OpenFile(dir, level string) (*log.Logger, func() error, error) {
	noop := func() error { return nil }
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Discard(), noop, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "entropywalk.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Discard(), noop, err
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f.Close, nil
}
