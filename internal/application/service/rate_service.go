// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/fxconv/currency-conversion-system/internal/domain/repository"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
)

// DefaultCurrencies is served when the live currency list is unreachable.
var DefaultCurrencies = []string{
	"AUD", "BRL", "CAD", "CHF", "CNY", "EUR", "GBP", "HKD", "INR", "JPY",
	"KRW", "MXN", "NOK", "NZD", "RUB", "SEK", "SGD", "TRY", "USD", "ZAR",
}

const directSource = "Direct (same currency)"

// RateService resolves exchange rates by trying an ordered list of
// providers until one succeeds, and memoizes the supported-currency list.
// Callers only ever see tagged results; no provider fault escapes raw.
type RateService struct {
	providers  []repository.RateProvider
	currencies repository.CurrencySource
	history    repository.HistoricalSource
	logger     logger.Logger

	currencyTTL time.Duration
	now         func() time.Time

	mutex         sync.Mutex
	currencyList  []string
	lastListFetch time.Time
}

// RateServiceOption configures a RateService.
type RateServiceOption func(*RateService)

// WithCurrencyTTL overrides the default 1 hour currency-list memo lifetime.
func WithCurrencyTTL(ttl time.Duration) RateServiceOption {
	return func(s *RateService) { s.currencyTTL = ttl }
}

// WithClock injects a clock, used by tests to control the memo refresh.
func WithClock(now func() time.Time) RateServiceOption {
	return func(s *RateService) { s.now = now }
}

// NewRateService creates a rate service over the given ordered providers.
// The first provider is also expected to serve the currency list and the
// historical lookups.
func NewRateService(providers []repository.RateProvider, currencies repository.CurrencySource,
	history repository.HistoricalSource, log logger.Logger, opts ...RateServiceOption) *RateService {
	if log == nil {
		log = logger.Discard()
	}

	s := &RateService{
		providers:   providers,
		currencies:  currencies,
		history:     history,
		logger:      log,
		currencyTTL: time.Hour,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SupportedCurrencies returns the memoized sorted currency list, refreshing
// it when the memo is empty or older than its TTL. It never fails: fetch
// errors fall back to the built-in default list.
func (s *RateService) SupportedCurrencies(ctx context.Context) []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.currencyList != nil && s.now().Sub(s.lastListFetch) <= s.currencyTTL {
		return s.currencyList
	}

	list, err := s.currencies.FetchCurrencies(ctx)
	if err != nil {
		s.logger.Warn("Could not fetch currency list, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		s.currencyList = DefaultCurrencies
	} else {
		s.currencyList = list
	}
	s.lastListFetch = s.now()

	return s.currencyList
}

// Convert resolves the from→to rate and applies it to amount. Validation
// happens before any network call, a same-currency pair short-circuits, and
// providers are tried in order with the last provider's error reported when
// every one of them fails.
func (s *RateService) Convert(ctx context.Context, from, to string, amount float64) (*entity.Conversion, error) {
	if amount <= 0 {
		return nil, entity.NewValidationError("Amount must be greater than zero")
	}

	if from == to {
		return &entity.Conversion{
			FromCurrency:    from,
			ToCurrency:      to,
			Amount:          amount,
			ConvertedAmount: amount,
			ExchangeRate:    1.0,
			DataSource:      directSource,
		}, nil
	}

	var lastErr error
	for _, provider := range s.providers {
		quote, err := provider.ResolveRate(ctx, from, to)
		if err != nil {
			s.logger.Warn("Provider failed, moving to next", map[string]interface{}{
				"provider": provider.Name(),
				"from":     from,
				"to":       to,
				"error":    err.Error(),
			})
			lastErr = err
			continue
		}

		s.logger.Info("Rate resolved", map[string]interface{}{
			"provider": quote.Source,
			"from":     from,
			"to":       to,
			"rate":     quote.Rate,
		})

		return &entity.Conversion{
			FromCurrency:    from,
			ToCurrency:      to,
			Amount:          amount,
			ConvertedAmount: amount * quote.Rate,
			ExchangeRate:    quote.Rate,
			LastUpdated:     quote.Date,
			DataSource:      quote.Source,
		}, nil
	}

	if lastErr == nil {
		lastErr = entity.NewProviderError("No rate providers configured")
	}
	return nil, lastErr
}

// HistoricalRates fetches one rate per day going backward from today.
// Best effort: individual days that fail are skipped, and the lookup
// succeeds iff at least one day resolved.
func (s *RateService) HistoricalRates(ctx context.Context, from, to string, days int) (map[string]float64, error) {
	if days <= 0 {
		days = 7
	}

	rates := make(map[string]float64)
	for i := 0; i < days; i++ {
		date := s.now().AddDate(0, 0, -i).Format("2006-01-02")

		rate, err := s.history.HistoricalRate(ctx, from, to, date)
		if err != nil {
			s.logger.Debug("Skipping historical day", map[string]interface{}{
				"date":  date,
				"error": err.Error(),
			})
			continue
		}
		rates[date] = rate
	}

	if len(rates) == 0 {
		return nil, entity.NewProviderError("Historical data not available")
	}

	return rates, nil
}
