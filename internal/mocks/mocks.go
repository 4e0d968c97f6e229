// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
	ProviderName string
}

func (m *MockRateProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock-provider"
}

func (m *MockRateProvider) ResolveRate(ctx context.Context, from, to string) (*entity.Quote, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quote), args.Error(1)
}

// MockCurrencySource mocks the CurrencySource interface
type MockCurrencySource struct {
	mock.Mock
}

func (m *MockCurrencySource) FetchCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockHistoricalSource mocks the HistoricalSource interface
type MockHistoricalSource struct {
	mock.Mock
}

func (m *MockHistoricalSource) HistoricalRate(ctx context.Context, from, to, date string) (float64, error) {
	args := m.Called(ctx, from, to, date)
	return args.Get(0).(float64), args.Error(1)
}

// MockRateCache mocks the RateCache interface
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) CacheRate(from, to string, rate float64) error {
	args := m.Called(from, to, rate)
	return args.Error(0)
}

func (m *MockRateCache) CachedRate(from, to string) (float64, bool) {
	args := m.Called(from, to)
	return args.Get(0).(float64), args.Bool(1)
}

func (m *MockRateCache) Info() entity.CacheInfo {
	args := m.Called()
	return args.Get(0).(entity.CacheInfo)
}

func (m *MockRateCache) Clear() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRateCache) ClearExpired() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
