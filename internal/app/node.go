package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bump/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/bump/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bump/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bump/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/bump/internal/engine/graph"
	"go.trai.ch/bump/internal/engine/refresh"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			graph.NodeID,
			refresh.NodeID,
			config.StoreNodeID,
			config.NodeID,
			cas.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	builder, err := graft.Dep[*graph.Builder](ctx)
	if err != nil {
		return nil, err
	}

	refresher, err := graft.Dep[*refresh.Coordinator](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[*settings.Store](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.GraphCache](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(builder, refresher, store, loader, cache, telemetry, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
