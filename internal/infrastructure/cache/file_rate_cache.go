// Package cache internal/infrastructure/cache/file_rate_cache.go
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
)

// document is the on-disk shape of the cache store. The whole document is
// rewritten on every mutation; there are no partial writes.
type document struct {
	Rates    map[string]entity.RateEntry `json:"rates"`
	Metadata metadata                    `json:"metadata"`
}

type metadata struct {
	LastUpdate  string `json:"last_update,omitempty"`
	TotalCached int    `json:"total_cached,omitempty"`
}

// FileRateCache is a time-bounded rate cache persisted to a single JSON
// file. It is the offline fallback when no provider is reachable, never a
// source of truth: load failures of any kind degrade to an empty cache.
type FileRateCache struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger

	mutex sync.Mutex
	data  document
}

// Option configures a FileRateCache.
type Option func(*FileRateCache)

// WithTTL overrides the default 1 hour entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *FileRateCache) { c.ttl = ttl }
}

// WithClock injects a clock, used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *FileRateCache) { c.now = now }
}

// NewFileRateCache creates a rate cache backed by the file at path, loading
// whatever valid document is already there. It never fails: a missing,
// truncated or malformed store starts empty.
func NewFileRateCache(path string, log logger.Logger, opts ...Option) *FileRateCache {
	if log == nil {
		log = logger.Discard()
	}

	c := &FileRateCache{
		path:   path,
		ttl:    time.Hour,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.data = c.load()
	return c
}

func pairKey(from, to string) string {
	return from + "_" + to
}

func (c *FileRateCache) load() document {
	empty := document{Rates: make(map[string]entity.RateEntry)}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Could not read cache store, starting empty", map[string]interface{}{
				"path":  c.path,
				"error": err.Error(),
			})
		}
		return empty
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.logger.Warn("Cache store is malformed, starting empty", map[string]interface{}{
			"path":  c.path,
			"error": err.Error(),
		})
		return empty
	}
	if doc.Rates == nil {
		return empty
	}

	return doc
}

// persist rewrites the store wholesale. Failures are logged and returned;
// callers treat them as warnings, never as conversion failures.
func (c *FileRateCache) persist() error {
	raw, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache store: %w", err)
	}

	if err := os.WriteFile(c.path, raw, 0644); err != nil {
		c.logger.Warn("Could not save cache store", map[string]interface{}{
			"path":  c.path,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to write cache store: %w", err)
	}

	return nil
}

func (c *FileRateCache) valid(e entity.RateEntry) bool {
	ts, err := e.Time()
	if err != nil {
		// Fail closed on malformed timestamps.
		return false
	}
	return c.now().Sub(ts) < c.ttl
}

// CacheRate writes or overwrites the entry for from→to, stamps the current
// time, updates the store metadata and persists immediately.
func (c *FileRateCache) CacheRate(from, to string, rate float64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	timestamp := c.now().Format(time.RFC3339)
	c.data.Rates[pairKey(from, to)] = entity.RateEntry{
		Rate:         rate,
		Timestamp:    timestamp,
		FromCurrency: from,
		ToCurrency:   to,
	}

	c.data.Metadata.LastUpdate = timestamp
	c.data.Metadata.TotalCached = len(c.data.Rates)

	return c.persist()
}

// CachedRate looks up the forward key first. If it is absent, a valid
// reverse entry yields the reciprocal. An expired forward entry is evicted
// as a side effect of the read.
func (c *FileRateCache) CachedRate(from, to string) (float64, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	key := pairKey(from, to)
	entry, ok := c.data.Rates[key]
	if !ok {
		reverse, ok := c.data.Rates[pairKey(to, from)]
		if ok && c.valid(reverse) && reverse.Rate != 0 {
			return 1.0 / reverse.Rate, true
		}
		return 0, false
	}

	if !c.valid(entry) {
		delete(c.data.Rates, key)
		if err := c.persist(); err != nil {
			c.logger.Warn("Could not persist cache after eviction", map[string]interface{}{
				"pair":  key,
				"error": err.Error(),
			})
		}
		return 0, false
	}

	return entry.Rate, true
}

// Info returns a display snapshot of the store without mutating it.
func (c *FileRateCache) Info() entity.CacheInfo {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	valid := 0
	for _, entry := range c.data.Rates {
		if c.valid(entry) {
			valid++
		}
	}

	lastUpdate := c.data.Metadata.LastUpdate
	if lastUpdate == "" {
		lastUpdate = "Never"
	}

	return entity.CacheInfo{
		ValidCount:    valid,
		TotalCount:    len(c.data.Rates),
		LastUpdate:    lastUpdate,
		StoreLocation: c.path,
	}
}

// Clear resets the store to empty and persists.
func (c *FileRateCache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = document{Rates: make(map[string]entity.RateEntry)}
	return c.persist()
}

// ClearExpired sweeps the whole store, removes entries past their TTL and
// returns how many were removed. The store is rewritten only when something
// actually changed.
func (c *FileRateCache) ClearExpired() (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := 0
	for key, entry := range c.data.Rates {
		if !c.valid(entry) {
			delete(c.data.Rates, key)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}

	c.data.Metadata.TotalCached = len(c.data.Rates)
	return removed, c.persist()
}
