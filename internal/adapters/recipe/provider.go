// Package recipe reads recipe metadata from an spksrc-style recipe tree.
//
// A recipe is a directory <tree>/<namespace>/<name> holding a Makefile. Its dependencies and
// pinned version come from the Makefile; its candidate versions come from an optional version
// feed <feeds>/<namespace>/<name>.yaml.
package recipe

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/zerr"
)

// dependencyVars are the Makefile variables whose union forms a recipe's dependencies.
var dependencyVars = []string{"DEPENDS", "BUILD_DEPENDS", "OPTIONAL_DEPENDS"}

// versionVars are tried in order for the pinned version.
var versionVars = []string{"PKG_VERS", "SPK_VERS"}

// Provider implements ports.MetadataProvider and ports.RecipeLister over the recipe tree.
// Paths are read from the settings snapshot carried by the context, or from the live settings.
type Provider struct {
	settings settings.Reader
	logger   ports.Logger
}

var (
	_ ports.MetadataProvider = (*Provider)(nil)
	_ ports.RecipeLister     = (*Provider)(nil)
)

// NewProvider creates a new Provider.
func NewProvider(r settings.Reader, logger ports.Logger) *Provider {
	return &Provider{settings: r, logger: logger}
}

func (p *Provider) treeDir(ctx context.Context) string {
	return settings.FromContext(ctx, p.settings).Str("recipe_tree_dir")
}

func (p *Provider) feedPath(ctx context.Context, id domain.RecipeID) string {
	dir := settings.FromContext(ctx, p.settings).Str("recipe_feeds_dir")
	return filepath.Join(dir, id.Namespace(), id.Name()+".yaml")
}

// List returns the recipes of namespace, sorted.
func (p *Provider) List(ctx context.Context, namespace string) ([]domain.RecipeID, error) {
	dir := filepath.Join(p.treeDir(ctx), namespace)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("recipe namespace not found", "namespace", namespace, "dir", dir)
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to list recipes"), "dir", dir)
	}

	var ids []domain.RecipeID
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), domain.MakefileName)); err != nil {
			continue
		}
		ids = append(ids, domain.RecipeID(namespace+"/"+e.Name()))
	}
	slices.Sort(ids)
	return ids, nil
}

// Describe parses the Makefile of id and merges its version feed.
func (p *Provider) Describe(ctx context.Context, id domain.RecipeID) (domain.RecipeInfo, error) {
	mk, path, err := p.makefile(ctx, id)
	if err != nil {
		return domain.RecipeInfo{}, err
	}

	info := domain.RecipeInfo{
		Path:         path,
		Dependencies: p.dependencies(id, mk),
	}
	info.VersionInfo, err = p.versionInfo(ctx, id, mk)
	if err != nil {
		return domain.RecipeInfo{}, err
	}
	return info, nil
}

// Discover re-reads the pinned version and the version feed of id.
func (p *Provider) Discover(ctx context.Context, id domain.RecipeID) (domain.VersionInfo, error) {
	if v, ok := ports.VertexFromContext(ctx); ok {
		v.Log(domain.LogLevelDebug, "reading "+p.feedPath(ctx, id))
	}
	mk, _, err := p.makefile(ctx, id)
	if err != nil {
		return domain.VersionInfo{}, err
	}
	return p.versionInfo(ctx, id, mk)
}

func (p *Provider) makefile(ctx context.Context, id domain.RecipeID) (*Makefile, string, error) {
	path := filepath.Join(p.treeDir(ctx), id.Namespace(), id.Name(), domain.MakefileName)
	f, err := os.Open(path) //nolint:gosec // path is derived from the configured recipe tree
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", zerr.With(zerr.Wrap(domain.ErrRecipeNotFound, "recipe file missing"), "package", id.String())
		}
		return nil, "", zerr.With(zerr.Wrap(err, "failed to open recipe file"), "package", id.String())
	}
	defer func() {
		_ = f.Close()
	}()

	mk, err := ParseMakefile(f)
	if err != nil {
		return nil, "", zerr.With(err, "package", id.String())
	}
	return mk, path, nil
}

func (p *Provider) dependencies(id domain.RecipeID, mk *Makefile) []domain.RecipeID {
	var deps []domain.RecipeID
	for _, name := range dependencyVars {
		for _, word := range mk.Words(name) {
			if strings.Contains(word, "$") {
				continue
			}
			dep, err := domain.ParseRecipeID(word)
			if err != nil {
				p.logger.Debug("ignoring dependency", "package", id.String(), "dependency", word)
				continue
			}
			if !slices.Contains(deps, dep) {
				deps = append(deps, dep)
			}
		}
	}
	return deps
}

func (p *Provider) versionInfo(ctx context.Context, id domain.RecipeID, mk *Makefile) (domain.VersionInfo, error) {
	info := domain.VersionInfo{Method: domain.MethodEnumerated}
	for _, name := range versionVars {
		if v := mk.Get(name); v != "" {
			info.Version = v
			break
		}
	}

	feed, err := loadFeed(p.feedPath(ctx, id))
	if err != nil {
		return domain.VersionInfo{}, zerr.With(err, "package", id.String())
	}
	if feed != nil {
		feed.apply(&info)
	}
	return info, nil
}
