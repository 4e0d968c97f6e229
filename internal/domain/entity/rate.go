package entity

import (
	"time"
)

// RateEntry is a cached exchange rate for an ordered currency pair. It is
// stored verbatim in the cache document, so the timestamp stays an RFC 3339
// string; a value that does not parse makes the entry invalid rather than
// making the whole document unreadable.
type RateEntry struct {
	Rate         float64 `json:"rate"`
	Timestamp    string  `json:"timestamp"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
}

// Time parses the entry timestamp. Malformed timestamps return an error and
// the entry is treated as invalid.
func (e RateEntry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Timestamp)
}

// Quote is a rate resolved by an external provider.
type Quote struct {
	Rate   float64
	Date   string // quote date as reported by the provider, may be empty
	Source string
}

// CacheInfo is a read-only snapshot of the rate cache for display.
type CacheInfo struct {
	ValidCount    int    `json:"valid_count"`
	TotalCount    int    `json:"total_count"`
	LastUpdate    string `json:"last_update"`
	StoreLocation string `json:"store_location"`
}
