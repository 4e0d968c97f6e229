package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...Option) (*FileRateCache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exchange_cache.json")
	return NewFileRateCache(path, nil, opts...), path
}

func TestCacheRoundTrip(t *testing.T) {
	c, path := newTestCache(t)

	require.NoError(t, c.CacheRate("USD", "EUR", 0.92))

	rate, ok := c.CachedRate("USD", "EUR")
	assert.True(t, ok)
	assert.Equal(t, 0.92, rate)

	// Persisted synchronously with the documented shape
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "rates")
	assert.Contains(t, doc, "metadata")
	assert.Contains(t, string(doc["rates"]), "USD_EUR")
}

func TestReverseLookupReturnsReciprocal(t *testing.T) {
	c, _ := newTestCache(t)

	require.NoError(t, c.CacheRate("USD", "EUR", 0.80))

	rate, ok := c.CachedRate("EUR", "USD")
	assert.True(t, ok)
	assert.InDelta(t, 1.25, rate, 1e-9)

	// The original entry is untouched by the reverse read
	forward, ok := c.CachedRate("USD", "EUR")
	assert.True(t, ok)
	assert.Equal(t, 0.80, forward)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestCache(t, WithClock(func() time.Time { return now }))

	require.NoError(t, c.CacheRate("USD", "EUR", 0.92))

	// Still valid just inside the TTL window
	now = now.Add(59 * time.Minute)
	_, ok := c.CachedRate("USD", "EUR")
	assert.True(t, ok)

	// Invalid just past it, and the read evicts the entry
	now = now.Add(2 * time.Minute)
	_, ok = c.CachedRate("USD", "EUR")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Info().TotalCount)
}

func TestExpiredReverseEntryIsNotUsed(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestCache(t, WithClock(func() time.Time { return now }), WithTTL(time.Minute))

	require.NoError(t, c.CacheRate("USD", "EUR", 0.92))

	now = now.Add(2 * time.Minute)
	_, ok := c.CachedRate("EUR", "USD")
	assert.False(t, ok)
}

func TestClearExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestCache(t, WithClock(func() time.Time { return now }))

	require.NoError(t, c.CacheRate("USD", "EUR", 0.92))
	now = now.Add(2 * time.Hour) // first entry is now stale
	require.NoError(t, c.CacheRate("USD", "GBP", 0.79))
	require.NoError(t, c.CacheRate("USD", "JPY", 151.2))

	removed, err := c.ClearExpired()
	assert.NoError(t, err)
	assert.Equal(t, 1, removed)

	info := c.Info()
	assert.Equal(t, 2, info.TotalCount)
	assert.Equal(t, 2, info.ValidCount)

	// Nothing left to remove, no rewrite needed
	removed, err = c.ClearExpired()
	assert.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(t)

	require.NoError(t, c.CacheRate("USD", "EUR", 0.92))
	require.NoError(t, c.Clear())

	_, ok := c.CachedRate("USD", "EUR")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Info().TotalCount)
	assert.Equal(t, "Never", c.Info().LastUpdate)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()

	// Missing file
	c := NewFileRateCache(filepath.Join(dir, "missing.json"), nil)
	assert.Equal(t, 0, c.Info().TotalCount)

	// Truncated / corrupt content
	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`{"rates": {"USD_E`), 0644))
	c = NewFileRateCache(corrupt, nil)
	assert.Equal(t, 0, c.Info().TotalCount)

	// Wrong shape
	wrong := filepath.Join(dir, "wrong.json")
	require.NoError(t, os.WriteFile(wrong, []byte(`[1, 2, 3]`), 0644))
	c = NewFileRateCache(wrong, nil)
	assert.Equal(t, 0, c.Info().TotalCount)
}

func TestMalformedTimestampFailsClosed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exchange_cache.json")

	stored := `{
		"rates": {
			"USD_EUR": {"rate": 0.92, "timestamp": "not-a-time", "from_currency": "USD", "to_currency": "EUR"}
		},
		"metadata": {"last_update": "not-a-time", "total_cached": 1}
	}`
	require.NoError(t, os.WriteFile(path, []byte(stored), 0644))

	c := NewFileRateCache(path, nil)
	_, ok := c.CachedRate("USD", "EUR")
	assert.False(t, ok)
}

func TestCacheSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange_cache.json")

	first := NewFileRateCache(path, nil)
	require.NoError(t, first.CacheRate("USD", "EUR", 0.92))

	second := NewFileRateCache(path, nil)
	rate, ok := second.CachedRate("USD", "EUR")
	assert.True(t, ok)
	assert.Equal(t, 0.92, rate)
}
