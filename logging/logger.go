// Package logging wraps log/slog with the field names and per-operation
// helpers shared by index/bruteforce and index/hnsw. A nil *Logger is
// valid and silently discards all log calls, so it doubles as the
// disabled-logging default.
package logging

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with index-specific structured fields.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger from handler. A nil handler falls back to
// a text handler on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to
// stderr at the given level.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewJSONLogger creates a Logger that writes JSON to stderr at the
// given level.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger returns a Logger that discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(1000)}))}
}

// WithID returns a derived Logger tagging subsequent records with id.
func (l *Logger) WithID(id uint64) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With("id", id)}
}

// LogInsert logs a single-vector insert.
func (l *Logger) LogInsert(id uint64, dimension int, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Error("insert failed", "id", id, "dimension", dimension, "error", err)
		return
	}
	l.Debug("insert completed", "id", id, "dimension", dimension)
}

// LogBatchInsert logs a batch insert covering count vectors, of which
// remaining were not yet processed when err occurred (0 on success).
func (l *Logger) LogBatchInsert(count, remaining int, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Error("batch insert failed", "total", count, "remaining", remaining, "error", err)
		return
	}
	l.Info("batch insert completed", "count", count)
}

// LogSearch logs a k-NN search.
func (l *Logger) LogSearch(k, resultsFound int, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Error("search failed", "k", k, "error", err)
		return
	}
	l.Debug("search completed", "k", k, "results", resultsFound)
}

// LogClear logs an index reset.
func (l *Logger) LogClear(previousCount int) {
	if l == nil {
		return
	}
	l.Info("index cleared", "previous_count", previousCount)
}
