// Package repository internal/domain/repository/rate_cache.go
package repository

import (
	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
)

// RateCache is a time-bounded store of exchange rates keyed by ordered
// currency pair. It backs the offline fallback path, so a miss is an
// ordinary outcome, not an error.
type RateCache interface {
	// CacheRate writes or overwrites the entry for from→to and persists
	// immediately. A persistence failure is returned but must never block
	// the conversion that triggered the write.
	CacheRate(from, to string, rate float64) error

	// CachedRate returns the cached rate for from→to if a valid entry
	// exists in either direction. The reverse direction yields the
	// reciprocal. Reading an expired forward entry evicts it.
	CachedRate(from, to string) (float64, bool)

	// Info returns a snapshot for display. It does not mutate the store.
	Info() entity.CacheInfo

	// Clear resets the cache to empty and persists.
	Clear() error

	// ClearExpired removes all expired entries and returns how many were
	// removed. Persists only when something changed.
	ClearExpired() (int, error)
}
