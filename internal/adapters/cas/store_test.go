package cas_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bump/internal/adapters/cas"
	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/settings"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newSettings(t *testing.T, enabled bool) *settings.Store {
	t.Helper()
	return settings.NewStore(
		settings.Entry{Name: "cache_dir", Kind: settings.KindString, Default: settings.String(filepath.Join(t.TempDir(), "cache"))},
		settings.Entry{Name: "cache_enabled", Kind: settings.KindBoolean, Default: settings.Bool(enabled)},
	)
}

func TestStore_Freshness(t *testing.T) {
	written := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := &clock{now: written}
	store := cas.NewStore(newSettings(t, true), cas.WithClock(clk.Now))

	require.NoError(t, store.Save("packages.json", map[string]string{"cross/zlib": "1.3"}))

	var got map[string]string
	clk.Set(written.Add(3599 * time.Second))
	require.True(t, store.Load("packages.json", 3600*time.Second, &got))
	assert.Equal(t, "1.3", got["cross/zlib"])

	clk.Set(written.Add(3601 * time.Second))
	assert.False(t, store.Load("packages.json", 3600*time.Second, &got))
}

func TestStore_GraphRoundTrip(t *testing.T) {
	store := cas.NewStore(newSettings(t, true))

	g := domain.NewPackageGraph(domain.GroupDistributable)
	require.NoError(t, g.Add(&domain.PackageNode{
		ID:           "spk/tvheadend",
		Dependencies: []domain.RecipeID{"cross/ffmpeg"},
		Info:         domain.VersionInfo{Version: "4.2", Method: domain.MethodEnumerated},
	}))
	require.NoError(t, store.Save(g.Group().CacheKey(), g))

	var loaded domain.PackageGraph
	require.True(t, store.Load(g.Group().CacheKey(), time.Hour, &loaded))
	assert.Equal(t, g.IDs(), loaded.IDs())
	assert.Equal(t, domain.GroupDistributable, loaded.Group())
}

func TestStore_MissingAndCorrupt(t *testing.T) {
	cfg := newSettings(t, true)
	store := cas.NewStore(cfg)

	var v map[string]int
	assert.False(t, store.Load("absent", time.Hour, &v))

	require.NoError(t, store.Save("corrupt", map[string]int{"a": 1}))
	entries, err := filepath.Glob(filepath.Join(cfg.Str("cache_dir"), "*.json"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(entries[0], []byte("{not json"), 0o600))

	assert.False(t, store.Load("corrupt", time.Hour, &v))
}

func TestStore_KeysDoNotCollide(t *testing.T) {
	store := cas.NewStore(newSettings(t, true))

	require.NoError(t, store.Save("packages.json", []string{"buildable"}))
	require.NoError(t, store.Save("packages_spk.json", []string{"distributable"}))

	var a, b []string
	require.True(t, store.Load("packages.json", time.Hour, &a))
	require.True(t, store.Load("packages_spk.json", time.Hour, &b))
	assert.Equal(t, []string{"buildable"}, a)
	assert.Equal(t, []string{"distributable"}, b)
}

func TestStore_Disabled(t *testing.T) {
	cfg := newSettings(t, true)
	store := cas.NewStore(cfg)
	require.NoError(t, store.Save("k", 1))

	cfg.Set("cache_enabled", false)

	var v int
	assert.False(t, store.Load("k", time.Hour, &v))
	require.NoError(t, store.Save("other", 2))

	cfg.Set("cache_enabled", true)
	assert.False(t, store.Load("other", time.Hour, &v), "nothing is written while disabled")
	assert.True(t, store.Load("k", time.Hour, &v))
	assert.Equal(t, 1, v)
}

func TestStore_Clear(t *testing.T) {
	cfg := newSettings(t, true)
	store := cas.NewStore(cfg)
	require.NoError(t, store.Save("a", 1))
	require.NoError(t, store.Save("b", 2))

	require.NoError(t, store.Clear())

	var v int
	assert.False(t, store.Load("a", time.Hour, &v))
	assert.False(t, store.Load("b", time.Hour, &v))

	cfg.Set("cache_dir", filepath.Join(t.TempDir(), "never-created"))
	assert.NoError(t, store.Clear())
}

func TestStore_ClearWaitsForLock(t *testing.T) {
	cfg := newSettings(t, true)
	store := cas.NewStore(cfg)
	require.NoError(t, store.Save("a", 1))

	held := flock.New(filepath.Join(cfg.Str("cache_dir"), domain.CacheLockFile))
	require.NoError(t, held.Lock())

	done := make(chan error, 1)
	go func() {
		done <- store.Clear()
	}()

	select {
	case <-done:
		t.Fatal("Clear returned while the cache lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	var v int
	assert.True(t, store.Load("a", time.Hour, &v))

	require.NoError(t, held.Unlock())
	require.NoError(t, <-done)
	assert.False(t, store.Load("a", time.Hour, &v))
}

func TestStore_ConcurrentWriters(t *testing.T) {
	store := cas.NewStore(newSettings(t, true))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save("shared", i))
		}()
	}
	wg.Wait()

	var v int
	require.True(t, store.Load("shared", time.Hour, &v))
	assert.GreaterOrEqual(t, v, 0)
	assert.Less(t, v, 8)
}
