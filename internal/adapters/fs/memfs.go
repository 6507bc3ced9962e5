package fs

import (
	iofs "io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing/fstest"
	"time"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

var _ ports.FileSystem = (*MemFS)(nil)

// MemFS is an in-memory ports.FileSystem backed by fstest.MapFS.
// Absolute paths are resolved against Root. It counts every mutating call.
type MemFS struct {
	mu     sync.RWMutex
	files  fstest.MapFS
	root   string
	writes int
	now    func() time.Time
}

// NewMemFS creates an empty in-memory filesystem rooted at root.
func NewMemFS(root string) *MemFS {
	return &MemFS{
		files: fstest.MapFS{},
		root:  filepath.Clean(root),
		now:   time.Now,
	}
}

// Seed places a file without counting it as a write. Parent directories are implied.
func (m *MemFS) Seed(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[m.toRelPath(p)] = &fstest.MapFile{Data: append([]byte(nil), data...), Mode: 0o644, ModTime: m.now()}
}

// Writes returns the number of mutating calls that succeeded.
func (m *MemFS) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// ReadFile reads the entire file at p.
func (m *MemFS) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return iofs.ReadFile(m.files, m.toRelPath(p))
}

// WriteFile writes data to p. The parent directory must exist.
func (m *MemFS) WriteFile(p string, data []byte, perm iofs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rel := m.toRelPath(p)
	if err := m.checkParent("open", p, rel); err != nil {
		return err
	}
	if f, ok := m.files[rel]; ok && f.Mode.IsDir() {
		return &iofs.PathError{Op: "open", Path: p, Err: iofs.ErrInvalid}
	}
	m.files[rel] = &fstest.MapFile{Data: append([]byte(nil), data...), Mode: perm, ModTime: m.now()}
	m.writes++
	return nil
}

// Stat returns file info for p.
func (m *MemFS) Stat(p string) (iofs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return iofs.Stat(m.files, m.toRelPath(p))
}

// MkdirAll creates p and any missing parents.
func (m *MemFS) MkdirAll(p string, perm iofs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rel := m.toRelPath(p)
	if rel == "." {
		return nil
	}

	created := false
	parts := strings.Split(rel, "/")
	for i := range parts {
		dir := strings.Join(parts[:i+1], "/")
		info, err := iofs.Stat(m.files, dir)
		if err == nil {
			if !info.IsDir() {
				return &iofs.PathError{Op: "mkdir", Path: p, Err: iofs.ErrExist}
			}
			continue
		}
		m.files[dir] = &fstest.MapFile{Mode: iofs.ModeDir | perm, ModTime: m.now()}
		created = true
	}
	if created {
		m.writes++
	}
	return nil
}

// ReadDir returns the entries of the directory sorted by name.
func (m *MemFS) ReadDir(p string) ([]iofs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return iofs.ReadDir(m.files, m.toRelPath(p))
}

// Rename moves a file, replacing the destination.
func (m *MemFS) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.toRelPath(oldPath)
	to := m.toRelPath(newPath)
	f, ok := m.files[from]
	if !ok {
		return &iofs.PathError{Op: "rename", Path: oldPath, Err: iofs.ErrNotExist}
	}
	if err := m.checkParent("rename", newPath, to); err != nil {
		return err
	}
	delete(m.files, from)
	m.files[to] = f
	m.writes++
	return nil
}

// Remove deletes the named file.
func (m *MemFS) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rel := m.toRelPath(p)
	if _, ok := m.files[rel]; !ok {
		return &iofs.PathError{Op: "remove", Path: p, Err: iofs.ErrNotExist}
	}
	delete(m.files, rel)
	m.writes++
	return nil
}

func (m *MemFS) checkParent(op, p, rel string) error {
	dir := path.Dir(rel)
	if dir == "." {
		return nil
	}
	info, err := iofs.Stat(m.files, dir)
	if err != nil {
		return &iofs.PathError{Op: op, Path: p, Err: iofs.ErrNotExist}
	}
	if !info.IsDir() {
		return &iofs.PathError{Op: op, Path: p, Err: iofs.ErrInvalid}
	}
	return nil
}

// toRelPath converts an absolute path to a slash separated path within the filesystem.
// Paths outside the root are returned unchanged and fail lookups with fs.ErrNotExist.
func (m *MemFS) toRelPath(p string) string {
	if !filepath.IsAbs(p) {
		return path.Clean(filepath.ToSlash(p))
	}

	p = filepath.Clean(p)
	if p == m.root {
		return "."
	}
	if m.root != string(filepath.Separator) && !strings.HasPrefix(p, m.root+string(filepath.Separator)) {
		return p
	}

	rel := strings.TrimPrefix(p, m.root)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	return filepath.ToSlash(rel)
}
