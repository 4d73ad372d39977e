package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bump/internal/adapters/config"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
)

// NodeID is the unique identifier for the graph cache Graft node.
const NodeID graft.ID = "adapter.graph_cache"

func init() {
	graft.Register(graft.Node[ports.GraphCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.StoreNodeID},
		Run: func(ctx context.Context) (ports.GraphCache, error) {
			store, err := graft.Dep[*settings.Store](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(store), nil
		},
	})
}
