// Package history persists the build size history of a project as JSON.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HistoryStore = (*Store)(nil)

// Store implements ports.HistoryStore using .wasm-slim/history.json.
type Store struct {
	fs ports.FileSystem
}

// NewStore creates a new Store over the given filesystem.
func NewStore(fsys ports.FileSystem) *Store {
	return &Store{fs: fsys}
}

// fileSchema mirrors domain.History with pointer fields so absent keys are
// distinguishable from zero values.
type fileSchema struct {
	Records *[]recordSchema `json:"records"`
}

type recordSchema struct {
	Timestamp  *time.Time `json:"timestamp"`
	SizeBytes  *uint64    `json:"size_bytes"`
	CommitHash *string    `json:"commit_hash"`
	Branch     *string    `json:"branch"`
}

// Load reads the history for root. A missing file yields an empty history.
// Any file that exists but does not hold a well-formed history, including an
// empty one, fails with ErrHistoryParse so callers never overwrite it.
func (s *Store) Load(root string) (*domain.History, error) {
	path := domain.HistoryPath(root)

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewHistory(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}

	h, err := decode(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrHistoryParse.Error()), "path", path)
	}
	return h, nil
}

func decode(data []byte) (*domain.History, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, zerr.New("history file is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw *fileSchema
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, zerr.New("unexpected data after history object")
	}
	if raw == nil || raw.Records == nil {
		return nil, zerr.New(`missing "records" key`)
	}

	h := domain.NewHistory()
	for i, rec := range *raw.Records {
		if rec.Timestamp == nil {
			return nil, zerr.With(zerr.New(`missing "timestamp"`), "record", i)
		}
		if rec.SizeBytes == nil {
			return nil, zerr.With(zerr.New(`missing "size_bytes"`), "record", i)
		}
		h.Records = append(h.Records, domain.BuildRecord{
			Timestamp:  *rec.Timestamp,
			SizeBytes:  *rec.SizeBytes,
			CommitHash: rec.CommitHash,
			Branch:     rec.Branch,
		})
	}
	return h, nil
}

// Save writes the history for root, creating the state directory if needed.
func (s *Store) Save(root string, h *domain.History) error {
	path := domain.HistoryPath(root)

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build history")
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDirCreateFailed.Error()), "path", dir)
	}

	if err := s.fs.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return nil
}
