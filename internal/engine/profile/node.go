package profile

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/catalog" //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the profile resolver Graft node.
const NodeID graft.ID = "engine.profile"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{catalog.NodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			c, err := graft.Dep[ports.TemplateCatalog](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(c), nil
		},
	})
}
