package ports

import "io/fs"

// FileSystem is the filesystem capability injected into every component that touches disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// ReadFile returns the full content of the named file.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the content of the named file, creating it if needed.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	// ReadDir returns the directory entries sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
}
