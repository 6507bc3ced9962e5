package backup

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the backup manager Graft node.
const NodeID graft.ID = "adapter.backup"

func init() {
	graft.Register(graft.Node[ports.BackupManager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (ports.BackupManager, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(fsys), nil
		},
	})
}
