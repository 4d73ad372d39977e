package graph

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bump/internal/adapters/cas"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/adapters/recipe" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
)

// NodeID is the unique identifier for the graph builder Graft node.
const NodeID graft.ID = "engine.graph_builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			recipe.ListerNodeID,
			recipe.NodeID,
			cas.NodeID,
			config.StoreNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			lister, err := graft.Dep[ports.RecipeLister](ctx)
			if err != nil {
				return nil, err
			}

			provider, err := graft.Dep[ports.MetadataProvider](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[ports.GraphCache](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[*settings.Store](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewBuilder(lister, provider, cache, store, log), nil
		},
	})
}
