package config

import (
	"runtime"

	"go.trai.ch/bump/internal/core/settings"
)

// Catalog returns the built-in settings.
func Catalog() []settings.Entry {
	return []settings.Entry{
		{
			Name:        "debug_level",
			Description: "Log level: DEBUG, INFO, WARNING, ERROR",
			Kind:        settings.KindString,
			Default:     settings.String("INFO"),
		},
		{
			Name:        "nb_jobs",
			Description: "Number of parallel version discovery jobs",
			Kind:        settings.KindInteger,
			Default:     settings.Int(runtime.NumCPU()),
		},
		{
			Name:        "work_dir",
			Description: "Work directory holding the cache and the recipe tree checkout",
			Kind:        settings.KindString,
			Default:     settings.String("work"),
		},
		{
			Name:        "recipe_tree_dir",
			Description: "Root directory of the recipe tree",
			Kind:        settings.KindString,
			Default:     settings.String("%work_dir%/spksrc-git"),
		},
		{
			Name:        "recipe_tree_uri",
			Description: "Repository the recipe tree is checked out from",
			Kind:        settings.KindString,
			Default:     settings.String("https://github.com/SynoCommunity/spksrc.git"),
		},
		{
			Name:        "recipe_tree_branch",
			Description: "Branch of the recipe tree repository",
			Kind:        settings.KindString,
			Default:     settings.String("master"),
		},
		{
			Name:        "recipe_feeds_dir",
			Description: "Directory holding the version feed of each recipe",
			Kind:        settings.KindString,
			Default:     settings.String("%work_dir%/feeds"),
		},
		{
			Name:        "cache_enabled",
			Description: "Read and write the graph cache",
			Kind:        settings.KindBoolean,
			Default:     settings.Bool(true),
		},
		{
			Name:        "cache_dir",
			Description: "Cache directory",
			Kind:        settings.KindString,
			Default:     settings.String("%work_dir%/cache"),
		},
		{
			Name:        "cache_duration",
			Description: "Global cache duration",
			Kind:        settings.KindDuration,
			Default:     settings.String("7d"),
		},
		{
			Name:        "cache_duration_packages_manager",
			Description: "Cache duration of the package graphs",
			Kind:        settings.KindDuration,
			Default:     settings.String("%cache_duration%"),
		},
		{
			Name:        "cache_duration_search_update",
			Description: "Cache duration of discovered versions",
			Kind:        settings.KindDuration,
			Default:     settings.String("%cache_duration%"),
		},
		{
			Name:        "build_update_deps",
			Description: "Update dependencies before the package itself",
			Kind:        settings.KindBoolean,
			Default:     settings.Bool(false),
		},
		{
			Name:        "build_major_release_allowed",
			Description: "Allow updates to the next major version",
			Kind:        settings.KindBoolean,
			Default:     settings.Bool(false),
		},
		{
			Name:        "build_prerelease_allowed",
			Description: "Allow prerelease versions",
			Kind:        settings.KindBoolean,
			Default:     settings.Bool(false),
		},
	}
}

// NewStore creates a settings store holding the catalog.
func NewStore() *settings.Store {
	return settings.NewStore(Catalog()...)
}
