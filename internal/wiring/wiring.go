// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bump/internal/adapters/cas"
	_ "go.trai.ch/bump/internal/adapters/config"
	_ "go.trai.ch/bump/internal/adapters/logger"
	_ "go.trai.ch/bump/internal/adapters/recipe"
	_ "go.trai.ch/bump/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/bump/internal/app"
	_ "go.trai.ch/bump/internal/engine/graph"
	_ "go.trai.ch/bump/internal/engine/refresh"
)
