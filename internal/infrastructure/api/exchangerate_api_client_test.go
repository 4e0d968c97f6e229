// internal/infrastructure/api/exchangerate_api_client_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRate(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/USD", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rates": {"EUR": 0.92, "GBP": 0.79}, "date": "2024-03-01"}`))
	}))
	defer mockServer.Close()

	client := NewExchangeRateAPIClient(mockServer.URL, nil, nil)

	quote, err := client.ResolveRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 0.92, quote.Rate)
	assert.Equal(t, "2024-03-01", quote.Date)
	assert.Equal(t, "ExchangeRate-API", quote.Source)
}

func TestResolveRateMissingPair(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": {"EUR": 0.92}, "date": "2024-03-01"}`))
	}))
	defer mockServer.Close()

	client := NewExchangeRateAPIClient(mockServer.URL, nil, nil)

	_, err := client.ResolveRate(context.Background(), "USD", "XXX")
	require.Error(t, err)

	var cerr *entity.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, entity.KindProvider, cerr.Kind)
	assert.Equal(t, "Exchange rate not available for USD to XXX", cerr.Message)
}

func TestResolveRateHTTPError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer mockServer.Close()

	client := NewExchangeRateAPIClient(mockServer.URL, nil, nil)

	_, err := client.ResolveRate(context.Background(), "USD", "EUR")
	require.Error(t, err)

	var cerr *entity.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, entity.KindProvider, cerr.Kind)
	assert.Equal(t, "API error: 503", cerr.Message)
}

func TestResolveRateConnectionError(t *testing.T) {
	// Server is closed before the request is made
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	mockServer.Close()

	client := NewExchangeRateAPIClient(mockServer.URL, nil, nil)

	_, err := client.ResolveRate(context.Background(), "USD", "EUR")
	require.Error(t, err)

	var cerr *entity.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, entity.KindTransport, cerr.Kind)
	assert.Equal(t, "Unable to connect to currency service. Please check your internet connection.", cerr.Message)
}

func TestResolveRateTimeout(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer mockServer.Close()

	client := NewExchangeRateAPIClient(mockServer.URL, &http.Client{Timeout: 10 * time.Millisecond}, nil)

	_, err := client.ResolveRate(context.Background(), "USD", "EUR")
	require.Error(t, err)

	var cerr *entity.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, entity.KindTransport, cerr.Kind)
	assert.Equal(t, "Request timed out. Please try again.", cerr.Message)
}

func TestFetchCurrencies(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/USD", r.URL.Path)
		w.Write([]byte(`{"rates": {"EUR": 0.92, "AUD": 1.52, "GBP": 0.79}, "date": "2024-03-01"}`))
	}))
	defer mockServer.Close()

	client := NewExchangeRateAPIClient(mockServer.URL, nil, nil)

	currencies, err := client.FetchCurrencies(context.Background())
	require.NoError(t, err)

	// USD is included and the list is sorted
	assert.Equal(t, []string{"AUD", "EUR", "GBP", "USD"}, currencies)
}

func TestHistoricalRate(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/history/USD/2024-03-01":
			w.Write([]byte(`{"rates": {"EUR": 0.91}}`))
		case "/history/USD/2024-02-29":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte(`{"rates": {}}`))
		}
	}))
	defer mockServer.Close()

	client := NewExchangeRateAPIClient(mockServer.URL, nil, nil)
	ctx := context.Background()

	rate, err := client.HistoricalRate(ctx, "USD", "EUR", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 0.91, rate)

	_, err = client.HistoricalRate(ctx, "USD", "EUR", "2024-02-29")
	assert.Error(t, err)

	_, err = client.HistoricalRate(ctx, "USD", "EUR", "2024-02-28")
	assert.Error(t, err)
}
