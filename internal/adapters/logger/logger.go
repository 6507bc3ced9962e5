// Package logger implements ports.Logger on log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Format selects how records are written.
type Format int

const (
	// Pretty writes one colored line per record.
	Pretty Format = iota
	// JSON writes one JSON object per record.
	JSON
)

// Logger implements ports.Logger using log/slog.
// Output goes to stderr unless redirected with SetOutput.
type Logger struct {
	mu     sync.RWMutex
	slog   *slog.Logger
	format Format
	out    io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() *Logger {
	return NewWithFormat(os.Stderr, Pretty)
}

// NewWithFormat creates a Logger writing records in format to w.
// A nil writer means stderr.
func NewWithFormat(w io.Writer, format Format) *Logger {
	l := &Logger{}
	l.reset(w, format)
	return l
}

// SetOutput updates the output destination, keeping the current format.
// A nil writer means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset(w, l.format)
}

// SetJSON switches between JSON and pretty output.
// The build command enables it with --json so every line on stderr is machine-readable.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	format := Pretty
	if enable {
		format = JSON
	}
	l.reset(l.out, format)
}

func (l *Logger) reset(w io.Writer, format Format) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if format == JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = NewPrettyHandler(w, opts)
	}
	l.out, l.format, l.slog = w, format, slog.New(h)
}

// Slog returns the slog.Logger records are currently written through.
// It follows later SetOutput and SetJSON calls only if fetched again.
func (l *Logger) Slog() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.slog
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.slog.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.slog.Warn(msg)
}

// Error logs err with its cause chain. A nil error is ignored.
//
// A "stage" entry in the outermost error's metadata is lifted into the stage
// attribute, so pipeline failures read "[compile] Error: ...".
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	entries := collectErrorEntries(err)
	var attrs []any
	if stage, ok := entries[0].Metadata[StageKey]; ok {
		attrs = append(attrs, slog.Any(StageKey, stage))
		entries[0].Metadata = without(entries[0].Metadata, StageKey)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.format == JSON {
		attrs = append(attrs, slog.String("error", err.Error()), slog.Any("causes", entries))
		l.slog.Error(entries[0].Message, attrs...)
		return
	}
	l.slog.Error(formatErrorEntries(entries), attrs...)
}

func without(meta map[string]any, key string) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if k != key {
			out[k] = v
		}
	}
	return out
}
