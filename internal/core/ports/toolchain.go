package ports

import (
	"context"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// ToolchainDetector reports on the external tools used by the pipeline.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainDetector interface {
	// Detect reports the installation status of each tool.
	// A missing tool is not an error.
	Detect(ctx context.Context, tools []domain.Tool) (domain.Toolchain, error)
	// Nightly reports whether the active rustc is a nightly build.
	// An absent or failing rustc counts as not nightly.
	Nightly(ctx context.Context) bool
}
