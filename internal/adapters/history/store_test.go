package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/history"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

func TestStore_LoadMissing(t *testing.T) {
	store := history.NewStore(fs.NewMemFS("/project"))

	h, err := store.Load("/project")
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
}

func TestStore_LoadRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "whitespace only", content: "  \n"},
		{name: "malformed json", content: "{not json"},
		{name: "null", content: "null"},
		{name: "array", content: "[]"},
		{name: "missing records key", content: `{}`},
		{name: "null records", content: `{"records":null}`},
		{name: "unknown top-level field", content: `{"wrong_field":[]}`},
		{name: "foreign schema", content: `{"builds":[{"when":"2026-01-01","bytes":99999}]}`},
		{name: "record without timestamp", content: `{"records":[{"size_bytes":10}]}`},
		{name: "record without size", content: `{"records":[{"timestamp":"2026-01-01T00:00:00Z"}]}`},
		{name: "unknown record field", content: `{"records":[{"timestamp":"2026-01-01T00:00:00Z","size_bytes":1,"extra":true}]}`},
		{name: "trailing data", content: `{"records":[]} {"records":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := fs.NewMemFS("/project")
			mem.Seed("/project/.wasm-slim/history.json", []byte(tt.content))

			h, err := history.NewStore(mem).Load("/project")
			require.ErrorContains(t, err, domain.ErrHistoryParse.Error())
			assert.Nil(t, h)
		})
	}
}

func TestStore_LoadEmptyRecords(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/.wasm-slim/history.json", []byte(`{"records":[]}`))

	h, err := history.NewStore(mem).Load("/project")
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
}

func TestStore_RoundTrip(t *testing.T) {
	mem := fs.NewMemFS("/project")
	store := history.NewStore(mem)

	want := domain.NewHistory()
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	want.Add(domain.NewBuildRecord(at, 1000, domain.Revision{}))
	want.Add(domain.NewBuildRecord(at.Add(time.Minute), 1100, domain.Revision{Commit: "deadbee"}))
	want.Add(domain.NewBuildRecord(at.Add(2*time.Minute), 900, domain.Revision{Commit: "cafe123", Branch: "feature/x"}))

	require.NoError(t, store.Save("/project", want))

	got, err := store.Load("/project")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, got.Records[2].CommitHash)
	assert.Nil(t, got.Records[1].Branch)
}

func TestStore_SaveOSFS(t *testing.T) {
	root := t.TempDir()
	store := history.NewStore(fs.NewOSFS())

	h := domain.NewHistory()
	h.Add(domain.NewBuildRecord(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 42, domain.Revision{}))
	require.NoError(t, store.Save(root, h))

	data, err := os.ReadFile(filepath.Join(root, ".wasm-slim", "history.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"records":[{"timestamp":"2026-01-01T00:00:00Z","size_bytes":42}]}`, string(data))
}
