// Package settings implements the configuration store: named, typed entries whose values
// may reference each other with %name% tokens, layered as override over default and
// memoized until an entry they reference changes.
package settings

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

var tokenPattern = regexp.MustCompile(`%\w+%`)

// Entry declares one setting.
type Entry struct {
	Name        string
	Description string
	Kind        Kind
	Default     Value
}

type entry struct {
	Entry
	override Value
}

// raw returns the override when one is installed, otherwise the default.
func (e *entry) raw() Value {
	if !e.override.IsNil() {
		return e.override
	}
	return e.Default
}

// Reader is the read side shared by the live Store and its snapshots.
type Reader interface {
	Get(name string, fallback Value) Value
	Int(name string, fallback int) int
	Bool(name string) bool
	Str(name string) string
	Duration(name string) time.Duration
}

// Store holds the declared entries, their overrides and memoized resolutions.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	memo    map[string]Value
}

// NewStore creates a store with the given entries declared.
func NewStore(entries ...Entry) *Store {
	s := &Store{
		entries: make(map[string]*entry, len(entries)),
		memo:    make(map[string]Value),
	}
	for _, e := range entries {
		s.entries[e.Name] = &entry{Entry: e}
	}
	return s
}

// Keys returns every entry name, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys()
}

func (s *Store) keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Lookup returns the declaration of name.
func (s *Store) Lookup(name string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return Entry{}, false
	}
	return e.Entry, true
}

// Get returns the effective value of name.
// Unknown names, and names resolving to a falsy value, yield fallback when it is not falsy itself.
func (s *Store) Get(name string, fallback Value) Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &resolver{store: s}
	v, _ := r.get(name)
	return orFallback(v, fallback)
}

// GetDefault resolves name from its default, ignoring any override.
// Tokens inside the default still resolve to the effective values of the names they reference.
func (s *Store) GetDefault(name string, fallback Value) Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return fallback
	}
	r := &resolver{store: s}
	v, _ := r.resolve(e, e.Default)
	return orFallback(v, fallback)
}

// Set installs an override for name and invalidates every memo depending on it.
// An unknown name is declared as an untyped entry on the fly.
func (s *Store) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		e = &entry{Entry: Entry{Name: name}}
		s.entries[name] = e
	}
	s.clear(name, make(map[string]bool))
	e.override = Of(value)
}

// Clear drops the memo of name and, transitively, of every entry whose raw value references it.
func (s *Store) Clear(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear(name, make(map[string]bool))
}

func (s *Store) clear(name string, seen map[string]bool) {
	if seen[name] {
		return
	}
	seen[name] = true
	delete(s.memo, name)

	token := "%" + name + "%"
	for key, e := range s.entries {
		if raw, ok := e.raw().Str(); ok && strings.Contains(raw, token) {
			s.clear(key, seen)
		}
	}
}

// Int returns the integer value of name, or fallback.
func (s *Store) Int(name string, fallback int) int {
	return intOf(s.Get(name, Nil), fallback)
}

// Bool returns the boolean value of name. Anything but a true boolean is false.
func (s *Store) Bool(name string) bool {
	return boolOf(s.Get(name, Nil))
}

// Str returns the stringified value of name.
func (s *Store) Str(name string) string {
	return s.Get(name, Nil).String()
}

// Duration returns the value of name as a duration, reading integers as seconds.
func (s *Store) Duration(name string) time.Duration {
	return durationOf(s.Get(name, Nil))
}

// Validate resolves every entry from scratch and reports conversion failures and
// circular references.
func (s *Store) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, name := range s.keys() {
		r := &resolver{store: s, fresh: true}
		if _, err := r.get(name); err != nil {
			errs = append(errs, zerr.With(err, "setting", name))
		}
		if r.cycle != "" {
			cerr := zerr.Wrap(ErrCircularReference, "token left unresolved")
			errs = append(errs, zerr.With(zerr.With(cerr, "setting", name), "reference", r.cycle))
		}
	}
	return errors.Join(errs...)
}

// Snapshot resolves every entry and returns an immutable copy of the results.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]Value, len(s.entries))
	for _, name := range s.keys() {
		r := &resolver{store: s}
		v, _ := r.get(name)
		values[name] = v
	}
	return &Snapshot{values: values}
}

// resolver carries the state of one top-level resolution.
type resolver struct {
	store    *Store
	visiting []string
	// cycle names the first reference found to loop back; results are not memoized then.
	cycle string
	// fresh ignores existing memos.
	fresh bool
}

func (r *resolver) get(name string) (Value, error) {
	s := r.store
	if m, ok := s.memo[name]; ok && !m.IsZero() && !r.fresh {
		return m, nil
	}
	e, ok := s.entries[name]
	if !ok {
		return Nil, nil
	}
	if slices.Contains(r.visiting, name) {
		if r.cycle == "" {
			r.cycle = strings.Join(append(slices.Clone(r.visiting), name), " -> ")
		}
		return Nil, nil
	}

	r.visiting = append(r.visiting, name)
	v, err := r.resolve(e, e.raw())
	r.visiting = r.visiting[:len(r.visiting)-1]

	if r.cycle == "" && err == nil {
		s.memo[name] = v
	}
	return v, err
}

// resolve substitutes tokens in raw and applies the kind conversion of e.
func (r *resolver) resolve(e *entry, raw Value) (Value, error) {
	v := r.substitute(raw)
	if v.IsZero() {
		return v, nil
	}
	out, err := e.Kind.cast(v)
	if err != nil {
		return Nil, err
	}
	return out, nil
}

func (r *resolver) substitute(raw Value) Value {
	str, ok := raw.Str()
	if !ok {
		return raw
	}
	v := raw
	for _, token := range tokenPattern.FindAllString(str, -1) {
		before := r.cycle
		ref, _ := r.get(token[1 : len(token)-1])
		if ref.IsZero() || r.cycle != before {
			continue
		}
		cur, _ := v.Str()
		if cur == token {
			v = ref
			break
		}
		v = String(strings.ReplaceAll(cur, token, ref.String()))
	}
	return v
}

func orFallback(v, fallback Value) Value {
	if v.IsZero() && !fallback.IsZero() {
		return fallback
	}
	return v
}

func intOf(v Value, fallback int) int {
	if i, ok := v.Int(); ok && i != 0 {
		return i
	}
	return fallback
}

func boolOf(v Value) bool {
	b, _ := v.Bool()
	return b
}

func durationOf(v Value) time.Duration {
	i, _ := v.Int()
	return time.Duration(i) * time.Second
}
