// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/bump/internal/core/domain"
)

//go:generate mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks

// RecipeLister enumerates the recipes of the recipe tree.
type RecipeLister interface {
	// List returns the ids of every recipe in namespace, sorted.
	// A namespace without recipes yields an empty list.
	List(ctx context.Context, namespace string) ([]domain.RecipeID, error)
}

// MetadataProvider reads recipe metadata and discovers candidate versions.
type MetadataProvider interface {
	// Describe returns the dependencies and version information of id.
	// It returns domain.ErrRecipeNotFound when id has no recipe file.
	Describe(ctx context.Context, id domain.RecipeID) (domain.RecipeInfo, error)

	// Discover returns refreshed version information for id.
	Discover(ctx context.Context, id domain.RecipeID) (domain.VersionInfo, error)
}
