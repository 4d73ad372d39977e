// Package cas implements the on-disk cache that persists package graphs between runs.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/zerr"
)

// Store implements ports.GraphCache with one JSON file per key.
// The cache directory and the enabled flag are read from the settings on every call.
type Store struct {
	settings settings.Reader
	now      func() time.Time
}

var _ ports.GraphCache = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the clock used to stamp and age entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store reading cache_dir and cache_enabled from r.
func NewStore(r settings.Reader, opts ...Option) *Store {
	s := &Store{
		settings: r,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type entry struct {
	Key       string          `json:"key"`
	WrittenAt time.Time       `json:"written_at"`
	Payload   json.RawMessage `json:"payload"`
}

func (s *Store) dir() string {
	return filepath.Clean(s.settings.Str("cache_dir"))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir(), fmt.Sprintf("%016x.json", xxhash.Sum64String(key)))
}

// Load decodes the entry under key into v when it was written less than ttl ago.
func (s *Store) Load(key string, ttl time.Duration, v any) bool {
	if !s.settings.Bool("cache_enabled") {
		return false
	}

	//nolint:gosec // Path is derived from the configured cache directory
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		return false
	}
	if s.now().Sub(e.WrittenAt) >= ttl {
		return false
	}
	return json.Unmarshal(e.Payload, v) == nil
}

// Save stores v under key. Writers are serialized with an advisory lock on the cache directory.
func (s *Store) Save(key string, v any) error {
	if !s.settings.Bool("cache_enabled") {
		return nil
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to marshal cache entry"), "key", key)
	}
	data, err := json.Marshal(entry{Key: key, WrittenAt: s.now().UTC(), Payload: payload})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to marshal cache entry"), "key", key)
	}

	dir := s.dir()
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache directory"), "dir", dir)
	}

	unlock, err := lockDir(dir)
	if err != nil {
		return err
	}
	defer unlock()

	return atomicWriteFile(s.path(key), data)
}

// Clear removes every cache entry under the same lock as Save.
func (s *Store) Clear() error {
	dir := s.dir()
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	unlock, err := lockDir(dir)
	if err != nil {
		return err
	}
	defer unlock()

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return zerr.Wrap(err, "failed to list cache entries")
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove cache entry"), "path", m)
		}
	}
	return nil
}

func lockDir(dir string) (func(), error) {
	lock := flock.New(filepath.Join(dir, domain.CacheLockFile))
	if err := lock.Lock(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to lock cache directory"), "dir", dir)
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}

func atomicWriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary cache file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write temporary cache file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close temporary cache file")
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to set cache file permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to rename cache file"), "path", path)
	}
	return nil
}
