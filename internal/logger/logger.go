// Package logger wraps slog.Logger with the field names used across a run.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with run-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger writes human-readable logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger writes JSON logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// New builds a Logger from format ("text" or "json") and level names.
func New(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextLogger(w, lvl), nil
	case "json":
		return NewJSONLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// WithRun tags every record with the run id.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run_id", id)}
}

// WithWorker tags every record with a worker id.
func (l *Logger) WithWorker(w int) *Logger {
	return &Logger{Logger: l.Logger.With("worker", w)}
}

// LogRunStart logs the resolved run parameters.
func (l *Logger) LogRunStart(ctx context.Context, dir string, files, workers, shards int, schedule string) {
	l.InfoContext(ctx, "scan started",
		"dir", dir,
		"files", files,
		"workers", workers,
		"shards", shards,
		"schedule", schedule,
	)
}

// LogFile logs the outcome of one file. Failures are warnings; successes
// are emitted at info when progress is on and at debug otherwise.
func (l *Logger) LogFile(ctx context.Context, index int, path string, lines int64, progress bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "file skipped",
			"index", index,
			"path", path,
			"lines", lines,
			"error", err,
		)
		return
	}
	lvl := slog.LevelDebug
	if progress {
		lvl = slog.LevelInfo
	}
	l.Log(ctx, lvl, "file scanned",
		"index", index,
		"path", path,
		"lines", lines,
	)
}

// LogRunDone logs the run summary.
func (l *Logger) LogRunDone(ctx context.Context, distinct int64, scanned, failed int, lines int64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan aborted",
			"scanned", scanned,
			"failed", failed,
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "scan completed",
		"distinct", distinct,
		"scanned", scanned,
		"failed", failed,
		"lines", lines,
		"elapsed", elapsed,
	)
}
