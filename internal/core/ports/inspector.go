package ports

import (
	"context"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// ArtifactInspector validates and describes a WebAssembly module.
//
//go:generate go run go.uber.org/mock/mockgen -source=inspector.go -destination=mocks/mock_inspector.go -package=mocks
type ArtifactInspector interface {
	Inspect(ctx context.Context, path string) (*domain.ModuleInfo, error)
}
