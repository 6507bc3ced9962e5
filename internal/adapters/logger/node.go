package logger

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// FormatEnv selects JSON logs when set to "json".
const FormatEnv = "WASM_SLIM_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return NewWithFormat(os.Stderr, formatFromEnv()), nil
		},
	})
}

func formatFromEnv() Format {
	if strings.EqualFold(os.Getenv(FormatEnv), "json") {
		return JSON
	}
	return Pretty
}
