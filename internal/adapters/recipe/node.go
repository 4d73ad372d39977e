package recipe

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bump/internal/adapters/config"
	"go.trai.ch/bump/internal/adapters/logger"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
)

const (
	// NodeID is the unique identifier for the metadata provider Graft node.
	NodeID graft.ID = "adapter.metadata_provider"

	// ListerNodeID is the unique identifier for the recipe lister Graft node.
	ListerNodeID graft.ID = "adapter.recipe_lister"
)

func newProvider(ctx context.Context) (*Provider, error) {
	store, err := graft.Dep[*settings.Store](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return NewProvider(store, log), nil
}

func init() {
	graft.Register(graft.Node[ports.MetadataProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.StoreNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.MetadataProvider, error) {
			return newProvider(ctx)
		},
	})

	graft.Register(graft.Node[ports.RecipeLister]{
		ID:        ListerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.StoreNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.RecipeLister, error) {
			return newProvider(ctx)
		},
	})
}
