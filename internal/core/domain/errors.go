package domain

import "go.trai.ch/zerr"

var (
	// ErrPackageAlreadyExists is returned when a node with the same recipe id is already in the graph.
	ErrPackageAlreadyExists = zerr.New("package already exists")

	// ErrPackageNotFound is returned when a requested recipe id has no node in any graph.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrRecipeNotFound is returned by metadata providers when a recipe has no recipe file.
	ErrRecipeNotFound = zerr.New("recipe not found")

	// ErrInvalidRecipeID is returned when a recipe id is not of the form "namespace/name".
	ErrInvalidRecipeID = zerr.New("invalid recipe id")

	// ErrCycleDetected is returned when a cycle is detected in a package dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrInvalidVersion is returned when a version string cannot be ordered.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrDiscoveryFailed is returned when version discovery fails for one or more recipes.
	ErrDiscoveryFailed = zerr.New("version discovery failed")
)
