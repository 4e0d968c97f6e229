// Package api internal/infrastructure/api/exchangerate_api_client.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
	"github.com/tidwall/gjson"
)

const (
	exchangeRateAPIName    = "ExchangeRate-API"
	defaultExchangeRateURL = "https://api.exchangerate-api.com/v4"

	// The currency list endpoint is the USD latest-rates payload; the
	// supported set is USD plus every quoted code.
	currencyListBase = "USD"
)

// ExchangeRateAPIClient is the primary rate provider. It also serves the
// supported-currency list and the best-effort historical lookups.
type ExchangeRateAPIClient struct {
	baseURL       string
	httpClient    *http.Client
	historyClient *http.Client
	logger        logger.Logger
}

// NewExchangeRateAPIClient creates the primary provider client. A nil
// httpClient gets the standard 10 second timeout; historical lookups use a
// tighter 5 second budget per day.
func NewExchangeRateAPIClient(baseURL string, httpClient *http.Client, log logger.Logger) *ExchangeRateAPIClient {
	if baseURL == "" {
		baseURL = defaultExchangeRateURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.Discard()
	}

	return &ExchangeRateAPIClient{
		baseURL:       baseURL,
		httpClient:    httpClient,
		historyClient: &http.Client{Timeout: 5 * time.Second},
		logger:        log,
	}
}

// latestResponse is the /latest/{FROM} payload.
type latestResponse struct {
	Rates map[string]float64 `json:"rates"`
	Date  string             `json:"date"`
}

// Name identifies this provider in results and logs.
func (c *ExchangeRateAPIClient) Name() string {
	return exchangeRateAPIName
}

// ResolveRate fetches the current from→to rate from /latest/{FROM}.
func (c *ExchangeRateAPIClient) ResolveRate(ctx context.Context, from, to string) (*entity.Quote, error) {
	payload, cerr := c.fetchLatest(ctx, from)
	if cerr != nil {
		return nil, cerr
	}

	rate, ok := payload.Rates[to]
	if !ok {
		return nil, entity.NewProviderError(fmt.Sprintf("Exchange rate not available for %s to %s", from, to))
	}

	return &entity.Quote{
		Rate:   rate,
		Date:   payload.Date,
		Source: exchangeRateAPIName,
	}, nil
}

// FetchCurrencies returns the sorted set of supported currency codes.
func (c *ExchangeRateAPIClient) FetchCurrencies(ctx context.Context) ([]string, error) {
	payload, cerr := c.fetchLatest(ctx, currencyListBase)
	if cerr != nil {
		return nil, cerr
	}

	currencies := make([]string, 0, len(payload.Rates)+1)
	currencies = append(currencies, currencyListBase)
	for code := range payload.Rates {
		if code != currencyListBase {
			currencies = append(currencies, code)
		}
	}
	sort.Strings(currencies)

	return currencies, nil
}

func (c *ExchangeRateAPIClient) fetchLatest(ctx context.Context, from string) (*latestResponse, *entity.ConversionError) {
	reqURL := fmt.Sprintf("%s/latest/%s", c.baseURL, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, entity.NewTransportError(fmt.Sprintf("Unexpected error: %v", err))
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Primary provider request failed", map[string]interface{}{
			"url":   reqURL,
			"error": err.Error(),
		})
		return nil, classifyTransportError(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, httpStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, entity.NewTransportError(fmt.Sprintf("Unexpected error: %v", err))
	}

	var payload latestResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, entity.NewProviderError(fmt.Sprintf("Unexpected error: %v", err))
	}
	if payload.Rates == nil {
		return nil, entity.NewProviderError("Currency service returned no rates")
	}

	return &payload, nil
}

// HistoricalRate fetches the from→to rate for a single past date. The
// history endpoint is not a stable documented API, so the payload is parsed
// leniently and any miss is just an error the caller skips.
func (c *ExchangeRateAPIClient) HistoricalRate(ctx context.Context, from, to, date string) (float64, error) {
	reqURL := fmt.Sprintf("%s/history/%s/%s", c.baseURL, from, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.historyClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("history endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	value := gjson.GetBytes(body, "rates."+to)
	if !value.Exists() {
		return 0, fmt.Errorf("no %s rate for %s on %s", to, from, date)
	}

	return value.Float(), nil
}
