// Package backup snapshots files before they are mutated and restores them on demand.
package backup

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// timestampLayout renders as YYYYMMDD_HHMMSS.mmm.
const timestampLayout = "20060102_150405.000"

var _ ports.BackupManager = (*Manager)(nil)

// Manager stores backups in the .wasm-slim/backups directory next to the file.
type Manager struct {
	fs  ports.FileSystem
	now func() time.Time
}

// NewManager creates a Manager over the given filesystem.
func NewManager(fsys ports.FileSystem) *Manager {
	return &Manager{fs: fsys, now: time.Now}
}

// WithClock replaces the clock used for backup timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Snapshot copies the file byte for byte into the backup directory.
// The name embeds a timestamp and a random UUID so snapshots never collide,
// followed by the xxhash64 of the captured bytes so a later List can hand
// Restore the digest that was true at snapshot time.
func (m *Manager) Snapshot(path string) (*domain.Backup, error) {
	data, err := m.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrBackupSourceMissing.Error()), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}

	dir := domain.BackupDir(filepath.Dir(path))
	if err := m.fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDirCreateFailed.Error()), "path", dir)
	}

	createdAt := m.now().UTC()
	digest := xxhash.Sum64(data)
	id := uuid.New()
	name := strings.Join([]string{
		filepath.Base(path),
		createdAt.Format(timestampLayout),
		hex.EncodeToString(id[:]),
		formatDigest(digest),
	}, ".") + domain.BackupSuffix

	target := filepath.Join(dir, name)
	if err := m.fs.WriteFile(target, data, domain.FilePerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", target)
	}

	return &domain.Backup{
		OriginalPath: path,
		Path:         target,
		CreatedAt:    createdAt,
		Size:         int64(len(data)),
		Digest:       digest,
	}, nil
}

// Restore rewrites the original file from the backup.
// A recorded digest is verified before anything is written.
func (m *Manager) Restore(b *domain.Backup) error {
	data, err := m.fs.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrBackupNotFound.Error()), "path", b.Path)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", b.Path)
	}

	if b.Digest != 0 && xxhash.Sum64(data) != b.Digest {
		return zerr.With(domain.ErrBackupCorrupt, "path", b.Path)
	}

	if err := m.fs.WriteFile(b.OriginalPath, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", b.OriginalPath)
	}
	return nil
}

// List returns the backups of the file, newest first.
// A missing backup directory yields no backups. Digests come from the backup
// names, never from the current bytes, so Restore still detects corruption.
// Backups named without a digest are listed with a zero Digest.
func (m *Manager) List(path string) ([]domain.Backup, error) {
	dir := domain.BackupDir(filepath.Dir(path))
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", dir)
	}

	prefix := filepath.Base(path) + "."
	var backups []domain.Backup
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, domain.BackupSuffix) {
			continue
		}
		createdAt, digest, ok := parseName(strings.TrimSuffix(strings.TrimPrefix(name, prefix), domain.BackupSuffix))
		if !ok {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", full)
		}
		backups = append(backups, domain.Backup{
			OriginalPath: path,
			Path:         full,
			CreatedAt:    createdAt,
			Size:         info.Size(),
			Digest:       digest,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].CreatedAt.After(backups[j].CreatedAt)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

// parseName reads "<YYYYMMDD_HHMMSS.mmm>.<uuid>[.<digest>]".
func parseName(rest string) (time.Time, uint64, bool) {
	if len(rest) < len(timestampLayout) {
		return time.Time{}, 0, false
	}
	t, err := time.ParseInLocation(timestampLayout, rest[:len(timestampLayout)], time.UTC)
	if err != nil {
		return time.Time{}, 0, false
	}

	parts := strings.Split(rest[len(timestampLayout):], ".")
	if len(parts) < 3 || parts[0] != "" {
		return t, 0, true
	}
	digest, err := strconv.ParseUint(parts[2], 16, 64)
	if err != nil {
		return t, 0, true
	}
	return t, digest, true
}

func formatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}
