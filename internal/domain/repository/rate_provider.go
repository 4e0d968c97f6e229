// Package repository internal/domain/repository/rate_provider.go
package repository

import (
	"context"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
)

// RateProvider resolves a live exchange rate for an ordered currency pair.
// Providers are tried in a fixed order; any error moves resolution to the
// next provider in the list.
type RateProvider interface {
	// Name identifies the provider in results and logs.
	Name() string

	// ResolveRate fetches the current rate for from→to. All failures are
	// returned as *entity.ConversionError values.
	ResolveRate(ctx context.Context, from, to string) (*entity.Quote, error)
}

// CurrencySource lists the currency codes a provider can quote.
type CurrencySource interface {
	FetchCurrencies(ctx context.Context) ([]string, error)
}

// HistoricalSource resolves a single day's rate for a pair. Best effort:
// callers tolerate per-day failures.
type HistoricalSource interface {
	HistoricalRate(ctx context.Context, from, to, date string) (float64, error)
}
