package refresh

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bump/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/adapters/config"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/adapters/recipe"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
)

// NodeID is the unique identifier for the refresh coordinator Graft node.
const NodeID graft.ID = "engine.refresh"

func init() {
	graft.Register(graft.Node[*Coordinator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			recipe.NodeID,
			cas.NodeID,
			progrock.NodeID,
			config.StoreNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Coordinator, error) {
			provider, err := graft.Dep[ports.MetadataProvider](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[ports.GraphCache](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
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

			return NewCoordinator(provider, cache, tel, store, log), nil
		},
	})
}
