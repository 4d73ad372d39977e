package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bump/internal/adapters/config"
	"go.trai.ch/bump/internal/adapters/telemetry"
	"go.trai.ch/bump/internal/app"
	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/ports/mocks"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/bump/internal/engine/graph"
	"go.trai.ch/bump/internal/engine/refresh"
	"go.uber.org/mock/gomock"
)

type appMocks struct {
	lister   *mocks.MockRecipeLister
	provider *mocks.MockMetadataProvider
	cache    *mocks.MockGraphCache
	loader   *mocks.MockSettingsLoader
	logger   *mocks.MockLogger
	store    *settings.Store
}

func newApp(t *testing.T) (*app.App, appMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := appMocks{
		lister:   mocks.NewMockRecipeLister(ctrl),
		provider: mocks.NewMockMetadataProvider(ctrl),
		cache:    mocks.NewMockGraphCache(ctrl),
		loader:   mocks.NewMockSettingsLoader(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		store:    config.NewStore(),
	}
	m.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	builder := graph.NewBuilder(m.lister, m.provider, m.cache, m.store, m.logger)
	refresher := refresh.NewCoordinator(m.provider, m.cache, telemetry.NoOp{}, m.store, m.logger)
	a := app.New(builder, refresher, m.store, m.loader, m.cache, telemetry.NoOp{}, m.logger)
	return a, m
}

func enumerated(version string, deps []domain.RecipeID, candidates ...string) domain.RecipeInfo {
	info := domain.RecipeInfo{
		Dependencies: deps,
		VersionInfo: domain.VersionInfo{
			Version:    version,
			Method:     domain.MethodEnumerated,
			Candidates: map[string]domain.Candidate{},
		},
	}
	for _, c := range candidates {
		info.Candidates[c] = domain.Candidate{Version: c, Prerelease: domain.IsPrerelease(c)}
	}
	return info
}

// expectTree declares a small recipe tree:
// spk/tvheadend -> cross/ffmpeg -> cross/x264, native/nasm.
func expectTree(m appMocks) {
	m.cache.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	m.lister.EXPECT().List(gomock.Any(), "cross").Return([]domain.RecipeID{"cross/ffmpeg", "cross/x264"}, nil)
	m.lister.EXPECT().List(gomock.Any(), "native").Return([]domain.RecipeID{"native/nasm"}, nil)
	m.lister.EXPECT().List(gomock.Any(), "spk").Return([]domain.RecipeID{"spk/tvheadend"}, nil)

	m.provider.EXPECT().Describe(gomock.Any(), domain.RecipeID("spk/tvheadend")).
		Return(enumerated("4.2.8", []domain.RecipeID{"cross/ffmpeg"}, "4.3.0-rc1"), nil)
	m.provider.EXPECT().Describe(gomock.Any(), domain.RecipeID("cross/ffmpeg")).
		Return(enumerated("4.4.1", []domain.RecipeID{"cross/x264", "native/nasm"}, "4.4.2", "5.0", "4.5.0-beta"), nil).
		Times(2)
	m.provider.EXPECT().Describe(gomock.Any(), domain.RecipeID("cross/x264")).
		Return(enumerated("20190214", nil), nil).Times(2)
	m.provider.EXPECT().Describe(gomock.Any(), domain.RecipeID("native/nasm")).
		Return(enumerated("2.14", nil, "2.16"), nil).Times(2)
}

func TestApp_Configure(t *testing.T) {
	a, m := newApp(t)

	m.loader.EXPECT().Apply(m.store, "bump.yaml", true).
		DoAndReturn(func(s *settings.Store, _ string, _ bool) error {
			s.Set("nb_jobs", 3)
			s.Set("work_dir", "/srv/bump")
			return nil
		})
	m.logger.EXPECT().SetLevel(domain.LogLevelDebug)

	err := a.Configure("bump.yaml", true,
		app.Override{Name: "nb_jobs", Value: 5},
		app.Override{Name: "debug_level", Value: "debug"},
	)
	require.NoError(t, err)

	assert.Equal(t, 5, a.Settings().Int("nb_jobs", 0))
	assert.Equal(t, "/srv/bump/cache", a.Settings().Str("cache_dir"))
}

func TestApp_ConfigureWarnsOnInvalidSettings(t *testing.T) {
	a, m := newApp(t)

	m.loader.EXPECT().Apply(gomock.Any(), "", false).Return(nil)
	m.logger.EXPECT().Warn("invalid settings", "error", gomock.Any())
	m.logger.EXPECT().SetLevel(domain.LogLevelInfo)

	require.NoError(t, a.Configure("", false, app.Override{Name: "nb_jobs", Value: "many"}))
}

func TestApp_ConfigureLoaderError(t *testing.T) {
	a, m := newApp(t)
	boom := errors.New("bad yaml")
	m.loader.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

	err := a.Configure("bump.yaml", true)
	assert.True(t, errors.Is(err, boom))
}

func TestApp_LoadAndQuery(t *testing.T) {
	a, m := newApp(t)
	expectTree(m)

	require.NoError(t, a.Load(context.Background()))

	assert.Equal(t, []domain.RecipeID{"cross/ffmpeg", "cross/x264", "native/nasm"}, a.Requested())
	assert.Equal(t, []domain.RecipeID{"cross/x264", "native/nasm"}, a.Dependencies("cross/ffmpeg"))
	assert.Equal(t, []domain.RecipeID{"spk/tvheadend"}, a.Parents("cross/ffmpeg"))
	assert.Equal(t, []domain.RecipeID{"cross/ffmpeg", "spk/tvheadend"}, a.Parents("native/nasm"))
	assert.Equal(t,
		[]domain.RecipeID{"cross/ffmpeg", "cross/x264", "native/nasm"},
		a.Dependencies("spk/tvheadend"))

	n, err := a.Package("spk/tvheadend")
	require.NoError(t, err)
	assert.Equal(t, "4.2.8", n.Info.Version)

	_, err = a.Package("cross/unknown")
	assert.True(t, errors.Is(err, domain.ErrPackageNotFound))
}

func TestApp_NextVersion(t *testing.T) {
	a, m := newApp(t)
	expectTree(m)
	require.NoError(t, a.Load(context.Background()))

	v, ok, err := a.NextVersion("cross/ffmpeg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4.4.2", v)

	a.Settings().Set("build_prerelease_allowed", true)
	v, _, err = a.NextVersion("cross/ffmpeg")
	require.NoError(t, err)
	assert.Equal(t, "4.5.0-beta", v)

	a.Settings().Set("build_major_release_allowed", true)
	v, _, err = a.NextVersion("cross/ffmpeg")
	require.NoError(t, err)
	assert.Equal(t, "5.0", v)

	_, ok, err = a.NextVersion("cross/x264")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = a.NextVersion("cross/unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApp_RefreshRoutesByGraph(t *testing.T) {
	a, m := newApp(t)
	expectTree(m)
	require.NoError(t, a.Load(context.Background()))

	a.Settings().Set("build_update_deps", true)
	a.SetRequested([]domain.RecipeID{"spk/tvheadend", "spk/tvheadend"})

	for _, id := range []domain.RecipeID{"cross/ffmpeg", "cross/x264", "native/nasm", "spk/tvheadend"} {
		m.provider.EXPECT().Discover(gomock.Any(), id).
			Return(domain.VersionInfo{Version: "9.9", Method: domain.MethodEnumerated}, nil)
	}

	results, err := a.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, domain.VertexStatusCompleted, r.Status, r.ID)
	}

	n, _ := a.Package("spk/tvheadend")
	assert.Equal(t, "9.9", n.Info.Version)
}

func TestApp_RefreshRequiresLoad(t *testing.T) {
	a, _ := newApp(t)
	_, err := a.Refresh(context.Background())
	assert.Error(t, err)
}

func TestApp_ClearCache(t *testing.T) {
	a, m := newApp(t)
	m.cache.EXPECT().Clear().Return(nil)
	assert.NoError(t, a.ClearCache())
	assert.NoError(t, a.Close())
}
