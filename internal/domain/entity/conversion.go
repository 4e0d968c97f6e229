package entity

// Conversion is a successful currency conversion.
type Conversion struct {
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"converted_amount"`
	ExchangeRate    float64 `json:"exchange_rate"`
	LastUpdated     string  `json:"last_updated,omitempty"`
	DataSource      string  `json:"data_source"`
}

// ErrorKind classifies conversion failures.
type ErrorKind int

const (
	// KindValidation rejects bad input before any network call.
	KindValidation ErrorKind = iota
	// KindTransport covers timeouts and connection failures.
	KindTransport
	// KindProvider covers non-2xx responses and payloads missing the
	// requested pair. Treated the same as transport for fallback purposes.
	KindProvider
)

// ConversionError is the failure arm of a conversion result. Every failure
// crossing the service boundary is one of these; nothing panics through.
type ConversionError struct {
	Kind    ErrorKind
	Message string
}

func (e *ConversionError) Error() string {
	return e.Message
}

// NewValidationError builds a validation failure.
func NewValidationError(msg string) *ConversionError {
	return &ConversionError{Kind: KindValidation, Message: msg}
}

// NewTransportError builds a transport-level failure.
func NewTransportError(msg string) *ConversionError {
	return &ConversionError{Kind: KindTransport, Message: msg}
}

// NewProviderError builds a provider-level failure.
func NewProviderError(msg string) *ConversionError {
	return &ConversionError{Kind: KindProvider, Message: msg}
}
