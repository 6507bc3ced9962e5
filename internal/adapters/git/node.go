package git

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/shell"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the source control Graft node.
const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[ports.SourceControl]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.SourceControl, error) {
			runner, err := graft.Dep[ports.ToolRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewSourceControl(runner), nil
		},
	})
}
