package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bump/internal/adapters/config"
	"go.trai.ch/bump/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bump.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	return path
}

func TestApply_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	path := writeFile(t, `
version: "1"
settings:
  work_dir: /srv/bump
  nb_jobs: 3
  build_prerelease_allowed: true
  cache_duration: 12h
`)

	store := config.NewStore()
	require.NoError(t, config.NewLoader(mockLogger).Apply(store, path, true))

	assert.Equal(t, "/srv/bump", store.Str("work_dir"))
	assert.Equal(t, "/srv/bump/cache", store.Str("cache_dir"))
	assert.Equal(t, "/srv/bump/spksrc-git", store.Str("recipe_tree_dir"))
	assert.Equal(t, 3, store.Int("nb_jobs", 0))
	assert.True(t, store.Bool("build_prerelease_allowed"))
	assert.Equal(t, 12*3600, store.Int("cache_duration_packages_manager", 0))
}

func TestApply_UnknownSettingWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("unknown setting", "setting", "colour", "path", gomock.Any())

	path := writeFile(t, `
settings:
  colour: blue
`)

	store := config.NewStore()
	require.NoError(t, config.NewLoader(mockLogger).Apply(store, path, true))
	assert.Equal(t, "blue", store.Str("colour"))
}

func TestApply_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))
	store := config.NewStore()
	missing := filepath.Join(t.TempDir(), "bump.yaml")

	assert.NoError(t, loader.Apply(store, missing, false))

	err := loader.Apply(store, missing, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestApply_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	t.Run("Invalid YAML", func(t *testing.T) {
		path := writeFile(t, "settings: [unclosed\n")
		err := loader.Apply(config.NewStore(), path, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse settings file")
	})

	t.Run("Nested value", func(t *testing.T) {
		path := writeFile(t, "settings:\n  work_dir:\n    nested: true\n")
		err := loader.Apply(config.NewStore(), path, true)
		require.Error(t, err)

		zErr, ok := err.(*zerr.Error)
		if !ok {
			t.Fatalf("expected *zerr.Error, got %T: %v", err, err)
		}
		if name, ok := zErr.Metadata()["setting"].(string); !ok || name != "work_dir" {
			t.Errorf("expected metadata setting=work_dir, got %v", zErr.Metadata()["setting"])
		}
	})

	t.Run("Unknown version", func(t *testing.T) {
		path := writeFile(t, "version: \"9\"\n")
		err := loader.Apply(config.NewStore(), path, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported settings file version")
	})
}

func TestParseAssignment(t *testing.T) {
	name, value, err := config.ParseAssignment("cache_dir=/tmp/a=b")
	require.NoError(t, err)
	assert.Equal(t, "cache_dir", name)
	assert.Equal(t, "/tmp/a=b", value)

	name, value, err = config.ParseAssignment("debug_level=")
	require.NoError(t, err)
	assert.Equal(t, "debug_level", name)
	assert.Empty(t, value)

	for _, bad := range []string{"", "nb_jobs", "=3"} {
		_, _, err := config.ParseAssignment(bad)
		assert.Error(t, err, bad)
	}
}
