// Package api internal/infrastructure/api/fixer_api_client.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
)

const (
	fixerName       = "Fixer.io (Fallback)"
	defaultFixerURL = "http://data.fixer.io/api"

	// Free-tier payloads quote every rate against EUR regardless of the
	// requested base, so all derivation goes through it.
	fixerBaseCurrency = "EUR"
)

// FixerAPIClient is the secondary rate provider. Without an API key it runs
// in the keyless free-tier mode: EUR-based payloads, cross rates derived.
type FixerAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewFixerAPIClient creates the secondary provider client. An empty apiKey
// degrades the client to keyless mode rather than failing.
func NewFixerAPIClient(baseURL, apiKey string, httpClient *http.Client, log logger.Logger) *FixerAPIClient {
	if baseURL == "" {
		baseURL = defaultFixerURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.Discard()
	}

	return &FixerAPIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     log,
	}
}

// fixerResponse is the /latest payload.
type fixerResponse struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
	Date    string             `json:"date"`
}

// Name identifies this provider in results and logs.
func (c *FixerAPIClient) Name() string {
	return fixerName
}

// ResolveRate fetches the current from→to rate, deriving cross rates
// through the EUR base when neither side is EUR. A rate missing from the
// payload is a failure, never a silent default.
func (c *FixerAPIClient) ResolveRate(ctx context.Context, from, to string) (*entity.Quote, error) {
	reqURL := c.baseURL + "/latest"
	if c.apiKey != "" {
		reqURL = fmt.Sprintf("%s/latest?access_key=%s&base=%s&symbols=%s",
			c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(from), url.QueryEscape(to))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, entity.NewTransportError(fmt.Sprintf("Unexpected error: %v", err))
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Fallback provider request failed", map[string]interface{}{
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

	var payload fixerResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, entity.NewProviderError(fmt.Sprintf("Unexpected error: %v", err))
	}
	if !payload.Success {
		return nil, entity.NewProviderError("Fallback API also failed")
	}

	rate, cerr := deriveRate(payload.Rates, from, to)
	if cerr != nil {
		return nil, cerr
	}

	return &entity.Quote{
		Rate:   rate,
		Date:   payload.Date,
		Source: fixerName,
	}, nil
}

// deriveRate computes from→to out of a payload quoted against the fixed
// EUR base: take or invert directly when one side is the base, otherwise
// rate(base→to) / rate(base→from).
func deriveRate(rates map[string]float64, from, to string) (float64, *entity.ConversionError) {
	switch {
	case from == fixerBaseCurrency:
		rate, ok := rates[to]
		if !ok {
			return 0, entity.NewProviderError(fmt.Sprintf("Currency %s not supported", to))
		}
		return rate, nil

	case to == fixerBaseCurrency:
		rate, ok := rates[from]
		if !ok || rate == 0 {
			return 0, entity.NewProviderError(fmt.Sprintf("Currency %s not supported", from))
		}
		return 1.0 / rate, nil

	default:
		fromRate, okFrom := rates[from]
		toRate, okTo := rates[to]
		if !okFrom || !okTo || fromRate == 0 {
			return 0, entity.NewProviderError("Currency pair not supported")
		}
		return toRate / fromRate, nil
	}
}
