// Package api internal/infrastructure/api/errors.go
package api

import (
	"errors"
	"fmt"
	"net"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
)

// classifyTransportError maps a failed HTTP round trip to a distinct
// human-readable failure. Timeouts and connection failures get different
// messages so the caller can tell them apart.
func classifyTransportError(err error) *entity.ConversionError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entity.NewTransportError("Request timed out. Please try again.")
	}
	return entity.NewTransportError("Unable to connect to currency service. Please check your internet connection.")
}

// httpStatusError reports a non-2xx provider response.
func httpStatusError(status int) *entity.ConversionError {
	return entity.NewProviderError(fmt.Sprintf("API error: %d", status))
}
