package ports

import (
	"context"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// SourceControl reads the current revision of a working tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=source_control.go -destination=mocks/mock_source_control.go -package=mocks
type SourceControl interface {
	// Head returns the current commit and branch.
	// Fields are empty when the directory is not a repository.
	Head(ctx context.Context, dir string) domain.Revision
}
