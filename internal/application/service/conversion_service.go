// Package service internal/application/service/conversion_service.go
package service

import (
	"context"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/fxconv/currency-conversion-system/internal/domain/repository"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
)

// ConversionService orchestrates rate resolution and the fallback cache.
// Its only job beyond delegation is making the cache write-through a side
// effect of every successful live conversion, so callers never have to
// remember to cache.
type ConversionService struct {
	rates  *RateService
	cache  repository.RateCache
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates *RateService, cache repository.RateCache, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.Discard()
	}

	return &ConversionService{
		rates:  rates,
		cache:  cache,
		logger: log,
	}
}

// Convert resolves and applies the from→to rate. On success the resolved
// rate is written through to the cache; a persistence failure is only a
// warning and never blocks the result. Failures propagate untouched — the
// caller decides whether to consult the cache and must label that value as
// potentially stale.
func (s *ConversionService) Convert(ctx context.Context, from, to string, amount float64) (*entity.Conversion, error) {
	result, err := s.rates.Convert(ctx, from, to, amount)
	if err != nil {
		return nil, err
	}

	// Same-currency conversions carry a constant rate and need no
	// fallback copy.
	if from != to {
		if cacheErr := s.cache.CacheRate(from, to, result.ExchangeRate); cacheErr != nil {
			s.logger.Warn("Could not cache exchange rate", map[string]interface{}{
				"from":  from,
				"to":    to,
				"error": cacheErr.Error(),
			})
		}
	}

	return result, nil
}

// CachedRate exposes the fallback cache lookup for callers degrading after
// a failed conversion.
func (s *ConversionService) CachedRate(from, to string) (float64, bool) {
	return s.cache.CachedRate(from, to)
}

// SupportedCurrencies returns the memoized supported-currency list.
func (s *ConversionService) SupportedCurrencies(ctx context.Context) []string {
	return s.rates.SupportedCurrencies(ctx)
}

// HistoricalRates returns the best-effort historical series.
func (s *ConversionService) HistoricalRates(ctx context.Context, from, to string, days int) (map[string]float64, error) {
	return s.rates.HistoricalRates(ctx, from, to, days)
}
