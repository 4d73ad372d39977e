// Package graph builds the package dependency graphs of the recipe tree.
package graph

import (
	"context"
	"errors"

	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/zerr"
)

// Builder expands the recipes of a group into a PackageGraph and persists it in the graph cache.
type Builder struct {
	lister   ports.RecipeLister
	provider ports.MetadataProvider
	cache    ports.GraphCache
	settings settings.Reader
	logger   ports.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(
	lister ports.RecipeLister,
	provider ports.MetadataProvider,
	cache ports.GraphCache,
	r settings.Reader,
	logger ports.Logger,
) *Builder {
	return &Builder{
		lister:   lister,
		provider: provider,
		cache:    cache,
		settings: r,
		logger:   logger,
	}
}

// Build returns the graph of group.
// A fresh cached graph is returned unmodified; otherwise every recipe of the group's namespaces is
// expanded recursively through its dependencies and the result is persisted.
func (b *Builder) Build(ctx context.Context, group domain.GraphGroup) (*domain.PackageGraph, error) {
	ttl := b.settings.Duration("cache_duration_packages_manager")

	var cached domain.PackageGraph
	if b.cache.Load(group.CacheKey(), ttl, &cached) && cached.Group() == group {
		b.logger.Debug("package graph loaded from cache", "group", string(group), "packages", cached.Len())
		return &cached, nil
	}

	g := domain.NewPackageGraph(group)
	for _, ns := range group.Namespaces() {
		roots, err := b.lister.List(ctx, ns)
		if err != nil {
			return nil, zerr.With(err, "group", string(group))
		}
		for _, id := range roots {
			if err := b.expand(ctx, g, id); err != nil {
				return nil, zerr.With(err, "group", string(group))
			}
		}
	}

	if err := g.Validate(); err != nil {
		b.logger.Warn("dependency cycle detected", "group", string(group), "error", err)
	}

	if err := b.cache.Save(group.CacheKey(), g); err != nil {
		b.logger.Warn("failed to persist package graph", "group", string(group), "error", err)
	}
	b.logger.Debug("package graph built", "group", string(group), "packages", g.Len())
	return g, nil
}

// expand adds id and, recursively, its dependencies to g.
// A node is added before its dependencies are visited so cycles terminate.
func (b *Builder) expand(ctx context.Context, g *domain.PackageGraph, id domain.RecipeID) error {
	if g.Has(id) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := b.provider.Describe(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			b.logger.Warn("recipe not found", "package", id.String())
			return nil
		}
		return err
	}

	n := domain.NewPackageNode(id, info)
	if err := g.Add(n); err != nil {
		return err
	}

	for _, dep := range n.Dependencies {
		if err := b.expand(ctx, g, dep); err != nil {
			return err
		}
		g.LinkParent(dep, id)
	}
	return nil
}
