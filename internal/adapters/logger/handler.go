package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/ui/output"
	"github.com/vitalratel/wasm-slim-sub001/internal/ui/style"
)

// StageKey is the attribute that prefixes a line with the pipeline stage it belongs to.
const StageKey = "stage"

// PrettyHandler is a slog.Handler that writes one colored line per record.
//
// A top-level "stage" attribute becomes a "[stage]" prefix, and integer
// attributes whose key ends in "_bytes" are printed as sizes.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	stage  string
	attrs  []string
	prefix string
}

// NewPrettyHandler creates a new PrettyHandler writing to w. A nil writer means stderr.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	tone := toneOf(r.Level)

	stage := h.stage
	parts := append([]string(nil), h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		if h.prefix == "" && attr.Key == StageKey {
			stage = attr.Value.String()
			return true
		}
		parts = append(parts, formatAttr(h.prefix, attr))
		return true
	})

	var b strings.Builder
	if icon := tone.Icon(); icon != "" {
		b.WriteString(icon + " ")
	}
	if stage != "" {
		b.WriteString("[" + stage + "] ")
	}
	b.WriteString(r.Message)
	if len(parts) > 0 {
		b.WriteString(" " + strings.Join(parts, " "))
	}

	styled := h.out.String(b.String()).Foreground(h.out.Color(string(tone.Color())))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]string(nil), h.attrs...)
	for _, attr := range attrs {
		if h.prefix == "" && attr.Key == StageKey {
			next.stage = attr.Value.String()
			continue
		}
		next.attrs = append(next.attrs, formatAttr(h.prefix, attr))
	}
	return &next
}

// WithGroup returns a new Handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func toneOf(level slog.Level) style.Tone {
	switch {
	case level >= slog.LevelError:
		return style.Bad
	case level >= slog.LevelWarn:
		return style.Caution
	default:
		return style.Neutral
	}
}

func formatAttr(prefix string, attr slog.Attr) string {
	key := prefix + attr.Key
	v := attr.Value.Resolve()
	if strings.HasSuffix(attr.Key, "_bytes") {
		switch v.Kind() {
		case slog.KindInt64:
			return key + "=" + domain.FormatBytes(v.Int64())
		case slog.KindUint64:
			return key + "=" + domain.FormatBytes(int64(v.Uint64())) //nolint:gosec // sizes are far below MaxInt64
		}
	}
	return key + "=" + v.String()
}
