package progrock

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"github.com/vito/progrock"
)

// NodeID is the unique identifier for the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			src, ok := log.(SlogSource)
			if !ok {
				return NewRecorder(progrock.Discard{}), nil
			}
			return New(src), nil
		},
	})
}
