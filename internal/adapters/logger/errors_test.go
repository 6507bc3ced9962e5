package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{"nil", nil, nil},
		{"plain error", errors.New("plain"), []string{"plain"}},
		{"single zerr", zerr.New("single"), []string{"single"}},
		{
			name:         "wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle"), "outer"),
			wantMessages: []string{"outer", "middle", "root cause"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)

			var got []string
			for _, e := range entries {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.wantMessages, got)
		})
	}
}

func TestCollectErrorEntries_Metadata(t *testing.T) {
	err := zerr.With(zerr.With(zerr.New("base"), "path", "Cargo.toml"), "line", 3)

	entries := logger.CollectErrorEntries(err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Cargo.toml", entries[0].Metadata["path"])
	assert.Equal(t, 3, entries[0].Metadata["line"])
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{"empty", nil, ""},
		{"single", []logger.ErrorEntry{{Message: "single"}}, "Error: single"},
		{
			name:    "cause chain",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "a"}, {Message: "b"}},
			want:    "Error: outer\n\n  Caused by:\n    → a\n    → b",
		},
		{
			name:    "multiline",
			entries: []logger.ErrorEntry{{Message: "l1\nl2"}, {Message: "c1\nc2"}},
			want:    "Error: l1\n       l2\n\n  Caused by:\n    → c1\n      c2",
		},
		{
			name: "sorted metadata",
			entries: []logger.ErrorEntry{{
				Message:  "bad",
				Metadata: map[string]any{"zeta": "z", "alpha": 1},
			}},
			want: "Error: bad\n       alpha: 1\n       zeta: z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
