package ports

import (
	"context"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// ToolRunner runs external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ToolRunner interface {
	// Run executes the command and waits for it to exit.
	//
	// Output is captured in the result and streamed to the vertex found in ctx,
	// or to the logger when there is none. A non-zero exit returns both the
	// result and an error carrying the exit code.
	Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)

	// LookPath resolves a binary name against PATH.
	LookPath(binary string) (string, error)
}
