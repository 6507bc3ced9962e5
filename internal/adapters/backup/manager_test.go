package backup_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/backup"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

const manifest = "[package]\nname = \"demo\" # keep me\n"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestManager_SnapshotIsByteIdentical(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/Cargo.toml", []byte(manifest))
	at := time.Date(2026, 3, 4, 5, 6, 7, 891_000_000, time.UTC)

	m := backup.NewManager(mem).WithClock(fixedClock(at))
	b, err := m.Snapshot("/project/Cargo.toml")
	require.NoError(t, err)

	assert.Equal(t, "/project/Cargo.toml", b.OriginalPath)
	assert.Equal(t, "/project/.wasm-slim/backups", filepath.Dir(b.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(b.Path), "Cargo.toml.20260304_050607.891."))
	assert.True(t, strings.HasSuffix(b.Path, fmt.Sprintf(".%016x.backup", xxhash.Sum64String(manifest))))
	assert.Equal(t, xxhash.Sum64String(manifest), b.Digest)
	assert.Equal(t, int64(len(manifest)), b.Size)
	assert.Equal(t, at, b.CreatedAt)

	data, err := mem.ReadFile(b.Path)
	require.NoError(t, err)
	assert.Equal(t, manifest, string(data))
}

func TestManager_SnapshotMissingFile(t *testing.T) {
	mem := fs.NewMemFS("/project")

	_, err := backup.NewManager(mem).Snapshot("/project/Cargo.toml")
	require.ErrorContains(t, err, domain.ErrBackupSourceMissing.Error())
	assert.Equal(t, 0, mem.Writes())
}

func TestManager_RapidSnapshotsNeverCollide(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/Cargo.toml", []byte(manifest))
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := backup.NewManager(mem).WithClock(fixedClock(at))

	seen := make(map[string]bool)
	for range 50 {
		b, err := m.Snapshot("/project/Cargo.toml")
		require.NoError(t, err)
		require.False(t, seen[b.Path], "duplicate backup path %s", b.Path)
		seen[b.Path] = true
	}

	list, err := m.List("/project/Cargo.toml")
	require.NoError(t, err)
	assert.Len(t, list, 50)
}

func TestManager_Restore(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/Cargo.toml", []byte(manifest))
	m := backup.NewManager(mem)

	b, err := m.Snapshot("/project/Cargo.toml")
	require.NoError(t, err)

	require.NoError(t, mem.WriteFile("/project/Cargo.toml", []byte("mutated"), domain.FilePerm))
	require.NoError(t, m.Restore(b))

	data, err := mem.ReadFile("/project/Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, manifest, string(data))
}

func TestManager_RestoreCorrupt(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/Cargo.toml", []byte(manifest))
	m := backup.NewManager(mem)

	b, err := m.Snapshot("/project/Cargo.toml")
	require.NoError(t, err)
	require.NoError(t, mem.WriteFile(b.Path, []byte("tampered"), domain.FilePerm))
	require.NoError(t, mem.WriteFile("/project/Cargo.toml", []byte("mutated"), domain.FilePerm))

	err = m.Restore(b)
	require.ErrorContains(t, err, domain.ErrBackupCorrupt.Error())

	data, err := mem.ReadFile("/project/Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, "mutated", string(data))
}

func TestManager_RestoreListedCorrupt(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/Cargo.toml", []byte(manifest))
	m := backup.NewManager(mem)

	b, err := m.Snapshot("/project/Cargo.toml")
	require.NoError(t, err)
	require.NoError(t, mem.WriteFile(b.Path, []byte("tampered"), domain.FilePerm))
	require.NoError(t, mem.WriteFile("/project/Cargo.toml", []byte("mutated"), domain.FilePerm))

	list, err := m.List("/project/Cargo.toml")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.Digest, list[0].Digest)
	assert.Equal(t, int64(len("tampered")), list[0].Size)

	err = m.Restore(&list[0])
	require.ErrorContains(t, err, domain.ErrBackupCorrupt.Error())

	data, err := mem.ReadFile("/project/Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, "mutated", string(data))
}

func TestManager_ListWithoutRecordedDigest(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/.wasm-slim/backups/Cargo.toml.20260501_100000.000.aa.backup", []byte("old"))

	m := backup.NewManager(mem)
	list, err := m.List("/project/Cargo.toml")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Zero(t, list[0].Digest)
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), list[0].CreatedAt)

	require.NoError(t, m.Restore(&list[0]))
	data, err := mem.ReadFile("/project/Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestManager_RestoreMissingBackup(t *testing.T) {
	mem := fs.NewMemFS("/project")
	err := backup.NewManager(mem).Restore(&domain.Backup{
		OriginalPath: "/project/Cargo.toml",
		Path:         "/project/.wasm-slim/backups/nope.backup",
	})
	require.ErrorContains(t, err, domain.ErrBackupNotFound.Error())
}

func TestManager_ListNewestFirst(t *testing.T) {
	mem := fs.NewMemFS("/project")
	mem.Seed("/project/Cargo.toml", []byte(manifest))
	mem.Seed("/project/other.toml", []byte("x"))

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	current := base
	m := backup.NewManager(mem).WithClock(func() time.Time { return current })

	for i := range 3 {
		current = base.Add(time.Duration(i) * time.Minute)
		_, err := m.Snapshot("/project/Cargo.toml")
		require.NoError(t, err)
	}
	_, err := m.Snapshot("/project/other.toml")
	require.NoError(t, err)

	list, err := m.List("/project/Cargo.toml")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, base.Add(2*time.Minute), list[0].CreatedAt)
	assert.Equal(t, base, list[2].CreatedAt)
	for _, b := range list {
		assert.Equal(t, "/project/Cargo.toml", b.OriginalPath)
		assert.NotZero(t, b.Digest)
	}
}

func TestManager_ListWithoutBackups(t *testing.T) {
	list, err := backup.NewManager(fs.NewMemFS("/project")).List("/project/Cargo.toml")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestManager_OSFS(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))

	m := backup.NewManager(fs.NewOSFS())
	b, err := m.Snapshot(path)
	require.NoError(t, err)

	data, err := os.ReadFile(b.Path)
	require.NoError(t, err)
	assert.Equal(t, manifest, string(data))

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o600))
	require.NoError(t, m.Restore(b))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, manifest, string(data))
}
