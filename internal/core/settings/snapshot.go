package settings

import (
	"context"
	"slices"
	"time"
)

// Snapshot is an immutable set of resolved values taken from a Store.
// Concurrent workers read from a Snapshot instead of the live Store.
type Snapshot struct {
	values map[string]Value
}

// NewSnapshot builds a snapshot from already resolved values.
func NewSnapshot(values map[string]Value) *Snapshot {
	cp := make(map[string]Value, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &Snapshot{values: cp}
}

// Keys returns the names in the snapshot, sorted.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the resolved value of name, or fallback under the same rules as Store.Get.
func (s *Snapshot) Get(name string, fallback Value) Value {
	v, ok := s.values[name]
	if !ok {
		return fallback
	}
	return orFallback(v, fallback)
}

// Int returns the integer value of name, or fallback.
func (s *Snapshot) Int(name string, fallback int) int {
	return intOf(s.Get(name, Nil), fallback)
}

// Bool returns the boolean value of name.
func (s *Snapshot) Bool(name string) bool {
	return boolOf(s.Get(name, Nil))
}

// Str returns the stringified value of name.
func (s *Snapshot) Str(name string) string {
	return s.Get(name, Nil).String()
}

// Duration returns the value of name as a duration.
func (s *Snapshot) Duration(name string) time.Duration {
	return durationOf(s.Get(name, Nil))
}

type snapshotKey struct{}

// WithSnapshot returns a copy of ctx carrying snap.
func WithSnapshot(ctx context.Context, snap *Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey{}, snap)
}

// FromContext returns the snapshot carried by ctx, or fallback when there is none.
func FromContext(ctx context.Context, fallback Reader) Reader {
	if snap, ok := ctx.Value(snapshotKey{}).(*Snapshot); ok && snap != nil {
		return snap
	}
	return fallback
}
