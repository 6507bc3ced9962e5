package catalog

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

// NodeID is the unique identifier for the template catalog Graft node.
const NodeID graft.ID = "adapter.catalog"

func init() {
	graft.Register(graft.Node[ports.TemplateCatalog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TemplateCatalog, error) {
			c, err := New()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}
