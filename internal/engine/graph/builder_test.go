package graph_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/ports/mocks"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/bump/internal/engine/graph"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type builderMocks struct {
	lister   *mocks.MockRecipeLister
	provider *mocks.MockMetadataProvider
	cache    *mocks.MockGraphCache
	logger   *mocks.MockLogger
}

func newBuilder(t *testing.T) (*graph.Builder, builderMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := builderMocks{
		lister:   mocks.NewMockRecipeLister(ctrl),
		provider: mocks.NewMockMetadataProvider(ctrl),
		cache:    mocks.NewMockGraphCache(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	m.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	store := settings.NewStore(settings.Entry{
		Name:    "cache_duration_packages_manager",
		Kind:    settings.KindDuration,
		Default: settings.String("1h"),
	})
	return graph.NewBuilder(m.lister, m.provider, m.cache, store, m.logger), m
}

func recipeInfo(version string, deps ...domain.RecipeID) domain.RecipeInfo {
	return domain.RecipeInfo{
		Path:         "/tree/" + version,
		Dependencies: deps,
		VersionInfo:  domain.VersionInfo{Version: version, Method: domain.MethodEnumerated},
	}
}

func TestBuilder_BuildExpandsAndPersists(t *testing.T) {
	b, m := newBuilder(t)
	ctx := context.Background()

	m.cache.EXPECT().Load("packages.json", time.Hour, gomock.Any()).Return(false)
	m.lister.EXPECT().List(ctx, "cross").Return([]domain.RecipeID{"cross/a", "cross/b"}, nil)
	m.lister.EXPECT().List(ctx, "native").Return(nil, nil)

	m.provider.EXPECT().Describe(ctx, domain.RecipeID("cross/a")).
		Return(recipeInfo("1.0", "cross/c", "cross/missing", "native/tool"), nil)
	m.provider.EXPECT().Describe(ctx, domain.RecipeID("cross/b")).
		Return(recipeInfo("2.0", "cross/c"), nil)
	m.provider.EXPECT().Describe(ctx, domain.RecipeID("cross/c")).
		Return(recipeInfo("3.0"), nil).Times(1)
	m.provider.EXPECT().Describe(ctx, domain.RecipeID("native/tool")).
		Return(recipeInfo("4.0"), nil)
	m.provider.EXPECT().Describe(ctx, domain.RecipeID("cross/missing")).
		Return(domain.RecipeInfo{}, zerr.With(zerr.Wrap(domain.ErrRecipeNotFound, "recipe file missing"), "package", "cross/missing"))
	m.logger.EXPECT().Warn("recipe not found", "package", "cross/missing")

	var saved *domain.PackageGraph
	m.cache.EXPECT().Save("packages.json", gomock.Any()).DoAndReturn(func(_ string, v any) error {
		saved = v.(*domain.PackageGraph)
		return nil
	})

	g, err := b.Build(ctx, domain.GroupBuildable)
	require.NoError(t, err)
	assert.Same(t, g, saved)

	assert.Equal(t, []domain.RecipeID{"cross/a", "cross/b", "cross/c", "native/tool"}, g.IDs())
	c, _ := g.Node("cross/c")
	assert.Equal(t, []domain.RecipeID{"cross/a", "cross/b"}, c.Parents)
	a, _ := g.Node("cross/a")
	assert.Equal(t, []domain.RecipeID{"cross/c", "cross/missing", "native/tool"}, a.Dependencies)
	assert.Empty(t, a.Parents)
}

func TestBuilder_BuildReturnsCachedGraph(t *testing.T) {
	b, m := newBuilder(t)

	cached := domain.NewPackageGraph(domain.GroupDistributable)
	require.NoError(t, cached.Add(&domain.PackageNode{ID: "spk/tvheadend", Info: domain.VersionInfo{Version: "4.2"}}))
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	m.cache.EXPECT().Load("packages_spk.json", time.Hour, gomock.Any()).
		DoAndReturn(func(_ string, _ time.Duration, v any) bool {
			return json.Unmarshal(data, v) == nil
		})

	g, err := b.Build(context.Background(), domain.GroupDistributable)
	require.NoError(t, err)
	assert.Equal(t, []domain.RecipeID{"spk/tvheadend"}, g.IDs())
	n, _ := g.Node("spk/tvheadend")
	assert.Equal(t, "4.2", n.Info.Version)
}

func TestBuilder_BuildKeepsCyclicGraph(t *testing.T) {
	b, m := newBuilder(t)
	ctx := context.Background()

	m.cache.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(false)
	m.lister.EXPECT().List(ctx, "spk").Return([]domain.RecipeID{"spk/a"}, nil)
	m.provider.EXPECT().Describe(ctx, domain.RecipeID("spk/a")).Return(recipeInfo("1", "cross/b"), nil)
	m.provider.EXPECT().Describe(ctx, domain.RecipeID("cross/b")).Return(recipeInfo("1", "spk/a"), nil)
	m.logger.EXPECT().Warn("dependency cycle detected", "group", "distributable", "error", gomock.Any())
	m.cache.EXPECT().Save("packages_spk.json", gomock.Any()).Return(nil)

	g, err := b.Build(ctx, domain.GroupDistributable)
	require.NoError(t, err)

	a, _ := g.Node("spk/a")
	bn, _ := g.Node("cross/b")
	assert.Equal(t, []domain.RecipeID{"cross/b"}, a.Parents)
	assert.Equal(t, []domain.RecipeID{"spk/a"}, bn.Parents)
}

func TestBuilder_BuildSaveFailureIsNotFatal(t *testing.T) {
	b, m := newBuilder(t)
	ctx := context.Background()

	m.cache.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(false)
	m.lister.EXPECT().List(ctx, "spk").Return(nil, nil)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	m.logger.EXPECT().Warn("failed to persist package graph", "group", "distributable", "error", gomock.Any())

	g, err := b.Build(ctx, domain.GroupDistributable)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestBuilder_BuildPropagatesProviderErrors(t *testing.T) {
	b, m := newBuilder(t)
	ctx := context.Background()
	boom := errors.New("permission denied")

	m.cache.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(false)
	m.lister.EXPECT().List(ctx, "cross").Return([]domain.RecipeID{"cross/a"}, nil)
	m.provider.EXPECT().Describe(ctx, domain.RecipeID("cross/a")).Return(domain.RecipeInfo{}, boom)

	_, err := b.Build(ctx, domain.GroupBuildable)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "buildable", zErr.Metadata()["group"])
}

func TestBuilder_BuildHonoursCancellation(t *testing.T) {
	b, m := newBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.cache.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(false)
	m.lister.EXPECT().List(ctx, "cross").Return([]domain.RecipeID{"cross/a"}, nil)

	_, err := b.Build(ctx, domain.GroupBuildable)
	assert.True(t, errors.Is(err, context.Canceled))
}
