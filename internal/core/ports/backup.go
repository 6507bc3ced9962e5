package ports

import "github.com/vitalratel/wasm-slim-sub001/internal/core/domain"

// BackupManager snapshots files before they are mutated.
//
//go:generate go run go.uber.org/mock/mockgen -source=backup.go -destination=mocks/mock_backup.go -package=mocks
type BackupManager interface {
	// Snapshot copies the file unmodified into the backup directory.
	Snapshot(path string) (*domain.Backup, error)

	// Restore rewrites the original file from the backup.
	Restore(backup *domain.Backup) error

	// List returns the backups of the file, newest first.
	List(path string) ([]domain.Backup, error)
}
