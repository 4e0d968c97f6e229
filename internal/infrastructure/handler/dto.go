package handler

// ConversionResponse represents a successful conversion
type ConversionResponse struct {
	Success         bool    `json:"success"`
	ConvertedAmount float64 `json:"converted_amount"`
	ExchangeRate    float64 `json:"exchange_rate"`
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	LastUpdated     string  `json:"last_updated,omitempty"`
	DataSource      string  `json:"data_source"`
}

// FallbackRate is a cached rate offered alongside a conversion failure. It
// is always explicitly marked stale; it is never folded into a success.
type FallbackRate struct {
	ConvertedAmount float64 `json:"converted_amount"`
	ExchangeRate    float64 `json:"exchange_rate"`
	DataSource      string  `json:"data_source"`
	Stale           bool    `json:"stale"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success     bool          `json:"success"`
	Error       string        `json:"error"`
	Status      int           `json:"status"`
	Description string        `json:"description,omitempty"`
	RequestID   string        `json:"request_id,omitempty"`
	Fallback    *FallbackRate `json:"fallback,omitempty"`
}

// CurrenciesResponse lists the supported currency codes
type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

// HistoricalRatesResponse represents a best-effort historical series
type HistoricalRatesResponse struct {
	Success      bool               `json:"success"`
	FromCurrency string             `json:"from_currency"`
	ToCurrency   string             `json:"to_currency"`
	Rates        map[string]float64 `json:"rates"`
}

// CacheClearResponse reports the outcome of a cache maintenance call
type CacheClearResponse struct {
	Removed int `json:"removed"`
}
