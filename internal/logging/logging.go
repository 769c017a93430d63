// Package logging builds the file logger shared by every component.
// The TUI owns the terminal, so logs go to a file beside the database.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Component prefixes
const (
	PrefixAPI  = "API"
	PrefixDB   = "DB"
	PrefixSync = "SYNC"
	PrefixUI   = "UI"
)

// Logger is the root logger plus the file it writes to
type Logger struct {
	*log.Logger
	file *os.File
}

// Open creates (or appends to) the log file at path
func Open(path, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{Logger: New(f, lvl), file: f}, nil
}

// New creates a logger writing to w with timestamps
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

// For returns a child logger tagged with a component prefix
func (l *Logger) For(prefix string) *log.Logger {
	return l.WithPrefix(prefix)
}

// Close closes the underlying file
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel accepts debug, info, warn, error and fatal; empty means info
func ParseLevel(level string) (log.Level, error) {
	if level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
