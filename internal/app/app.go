// Package app implements the application layer for bump.
package app

import (
	"context"
	"errors"

	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/bump/internal/engine/graph"
	"go.trai.ch/bump/internal/engine/refresh"
	"go.trai.ch/zerr"
)

// Override is a setting value applied on top of the settings file.
type Override struct {
	Name  string
	Value any
}

// App represents the main application logic.
type App struct {
	builder   *graph.Builder
	refresher *refresh.Coordinator
	settings  *settings.Store
	loader    ports.SettingsLoader
	cache     ports.GraphCache
	telemetry ports.Telemetry
	logger    ports.Logger

	buildable     *domain.PackageGraph
	distributable *domain.PackageGraph
	requested     []domain.RecipeID
}

// New creates a new App instance.
func New(
	builder *graph.Builder,
	refresher *refresh.Coordinator,
	store *settings.Store,
	loader ports.SettingsLoader,
	cache ports.GraphCache,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		builder:   builder,
		refresher: refresher,
		settings:  store,
		loader:    loader,
		cache:     cache,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Settings returns the live settings store.
func (a *App) Settings() *settings.Store {
	return a.settings
}

// Configure applies the settings file at path and then overrides, in order.
// The logger level follows debug_level afterwards. Invalid settings are logged, not returned.
func (a *App) Configure(path string, required bool, overrides ...Override) error {
	if err := a.loader.Apply(a.settings, path, required); err != nil {
		return err
	}
	for _, o := range overrides {
		a.settings.Set(o.Name, o.Value)
	}

	if err := a.settings.Validate(); err != nil {
		a.logger.Warn("invalid settings", "error", err)
	}
	a.logger.SetLevel(domain.ParseLogLevel(a.settings.Str("debug_level")))
	return nil
}

// Load builds, or loads from cache, the buildable and distributable graphs.
// When no recipe was requested yet, every buildable recipe becomes requested.
func (a *App) Load(ctx context.Context) error {
	buildable, err := a.builder.Build(ctx, domain.GroupBuildable)
	if err != nil {
		return zerr.Wrap(err, "failed to build package graph")
	}
	distributable, err := a.builder.Build(ctx, domain.GroupDistributable)
	if err != nil {
		return zerr.Wrap(err, "failed to build package graph")
	}
	a.buildable, a.distributable = buildable, distributable

	if len(a.requested) == 0 {
		a.requested = buildable.IDs()
	}
	return nil
}

// SetRequested replaces the requested recipes. Ids are deduplicated and sorted.
func (a *App) SetRequested(ids []domain.RecipeID) {
	a.requested = domain.SortedIDs(ids)
}

// Requested returns the requested recipes, sorted.
func (a *App) Requested() []domain.RecipeID {
	return a.requested
}

// Graphs returns the union view over both graphs.
func (a *App) Graphs() domain.Graphs {
	return domain.Graphs{a.buildable, a.distributable}
}

// Refresh discovers fresh versions for the requested recipes.
// With build_update_deps set, their transitive dependencies are refreshed too.
func (a *App) Refresh(ctx context.Context) ([]refresh.Result, error) {
	if a.buildable == nil {
		return nil, zerr.New("package graphs are not loaded")
	}

	ids := a.requested
	if a.settings.Bool("build_update_deps") {
		gs := a.Graphs()
		for _, id := range a.requested {
			ids = append(ids, gs.TransitiveDependencies(id)...)
		}
	}
	ids = domain.SortedIDs(ids)

	var forBuildable, forDistributable []domain.RecipeID
	for _, id := range ids {
		if !a.buildable.Has(id) && a.distributable.Has(id) {
			forDistributable = append(forDistributable, id)
			continue
		}
		forBuildable = append(forBuildable, id)
	}

	results, err := a.refresher.Refresh(ctx, a.buildable, forBuildable)
	if len(forDistributable) > 0 {
		more, moreErr := a.refresher.Refresh(ctx, a.distributable, forDistributable)
		results = append(results, more...)
		err = errors.Join(err, moreErr)
	}
	return results, err
}

// Package returns the node of id.
func (a *App) Package(id domain.RecipeID) (*domain.PackageNode, error) {
	n, ok := a.Graphs().Node(id)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "unknown package"), "package", id.String())
	}
	return n, nil
}

// Dependencies returns every recipe id reachable from id over both graphs, sorted.
func (a *App) Dependencies(id domain.RecipeID) []domain.RecipeID {
	return a.Graphs().TransitiveDependencies(id)
}

// Parents returns every recipe id that reaches id over both graphs, sorted.
func (a *App) Parents(id domain.RecipeID) []domain.RecipeID {
	return a.Graphs().TransitiveParents(id)
}

// Policy returns the version policy configured by the build_* settings.
func (a *App) Policy() domain.Policy {
	return domain.Policy{
		AllowMajor:      a.settings.Bool("build_major_release_allowed"),
		AllowPrerelease: a.settings.Bool("build_prerelease_allowed"),
	}
}

// NextVersion returns the version id should be pinned to under the configured policy.
// It reports false when id is unknown or has no candidate versions.
func (a *App) NextVersion(id domain.RecipeID) (string, bool, error) {
	n, ok := a.Graphs().Node(id)
	if !ok || len(n.Info.Candidates) == 0 {
		return "", false, nil
	}
	v, err := domain.NextVersion(n, a.Policy())
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// ClearCache removes every persisted graph.
func (a *App) ClearCache() error {
	return a.cache.Clear()
}

// Close flushes telemetry.
func (a *App) Close() error {
	return a.telemetry.Close()
}
