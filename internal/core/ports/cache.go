package ports

import "time"

// GraphCache persists values under a key and hands them back while they are fresh.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type GraphCache interface {
	// Load decodes the entry stored under key into v.
	// It reports false when the entry is absent, older than ttl, unreadable or the cache is disabled.
	Load(key string, ttl time.Duration, v any) bool

	// Save stores v under key, stamped with the current time.
	Save(key string, v any) error

	// Clear removes every entry.
	Clear() error
}
