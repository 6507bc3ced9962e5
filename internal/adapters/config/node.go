package config

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the config loader Graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(fsys, DefaultRegistry(), log), nil
		},
	})
}
