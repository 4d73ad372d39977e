package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bump/internal/adapters/logger"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
)

const (
	// NodeID is the unique identifier for the settings file loader Graft node.
	NodeID graft.ID = "adapter.settings_loader"

	// StoreNodeID is the unique identifier for the settings store Graft node.
	StoreNodeID graft.ID = "adapter.settings_store"
)

func init() {
	graft.Register(graft.Node[ports.SettingsLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SettingsLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[*settings.Store]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*settings.Store, error) {
			return NewStore(), nil
		},
	})
}
