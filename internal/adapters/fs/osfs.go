// Package fs provides the filesystem capability used by every component that touches disk.
package fs

import (
	iofs "io/fs"
	"os"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

var _ ports.FileSystem = (*OSFS)(nil)

// OSFS implements ports.FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is validated by caller
	return os.ReadFile(path)
}

// WriteFile writes data to path, creating or truncating it.
func (o *OSFS) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll creates path and any missing parents.
func (o *OSFS) MkdirAll(path string, perm iofs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// ReadDir returns the entries of the directory sorted by name.
func (o *OSFS) ReadDir(path string) ([]iofs.DirEntry, error) {
	return os.ReadDir(path)
}

// Rename moves oldPath to newPath, replacing newPath if it exists.
func (o *OSFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Remove deletes the named file.
func (o *OSFS) Remove(path string) error {
	return os.Remove(path)
}
