// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fxconv/currency-conversion-system/internal/application/service"
	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// staleSource labels cache-fallback values so the UI never presents them as
// live data.
const staleSource = "Cached (may be outdated)"

// ConversionHandler handles HTTP requests for currency conversion. It is
// the UI collaborator of the core: it owns the decision to consult the
// cache after a failed conversion and the labeling of that value as stale.
type ConversionHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(svc *service.ConversionService, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.Discard()
	}

	return &ConversionHandler{
		service: svc,
		logger:  log,
	}
}

// Convert handles GET /convert?from=USD&to=EUR&amount=100
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	rawAmount := r.URL.Query().Get("amount")

	h.logger.Info("Handling conversion request", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     rawAmount,
	})

	if len(from) != 3 || len(to) != 3 {
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"Currency codes should be 3 characters (e.g., USD, EUR, GBP)", http.StatusBadRequest, requestID)
		return
	}

	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid amount",
			"The 'amount' query parameter must be a number", http.StatusBadRequest, requestID)
		return
	}

	result, err := h.service.Convert(r.Context(), from, to, amount)
	if err != nil {
		h.handleConversionError(w, requestID, from, to, amount, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConversionResponse{
		Success:         true,
		ConvertedAmount: result.ConvertedAmount,
		ExchangeRate:    result.ExchangeRate,
		FromCurrency:    result.FromCurrency,
		ToCurrency:      result.ToCurrency,
		LastUpdated:     result.LastUpdated,
		DataSource:      result.DataSource,
	})
}

// handleConversionError maps the failure kind to a status code. Transport
// and provider failures additionally surface a valid cached rate when one
// exists, always marked stale and inside the error body.
func (h *ConversionHandler) handleConversionError(w http.ResponseWriter, requestID, from, to string, amount float64, err error) {
	var cerr *entity.ConversionError
	if !errors.As(err, &cerr) {
		h.logger.Error("Unexpected error in conversion handler", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred. Please try again later.", http.StatusInternalServerError, requestID)
		return
	}

	if cerr.Kind == entity.KindValidation {
		h.logger.Warn("Conversion request rejected", map[string]interface{}{
			"request_id": requestID,
			"error":      cerr.Message,
		})
		sendErrorResponse(w, h.logger, cerr.Message, "", http.StatusBadRequest, requestID)
		return
	}

	h.logger.Error("All rate providers failed", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"error":      cerr.Message,
	})

	resp := ErrorResponse{
		Error:     cerr.Message,
		Status:    http.StatusServiceUnavailable,
		RequestID: requestID,
	}

	if rate, ok := h.service.CachedRate(from, to); ok {
		h.logger.Info("Offering cached rate as degraded fallback", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"rate":       rate,
		})
		resp.Fallback = &FallbackRate{
			ConvertedAmount: amount * rate,
			ExchangeRate:    rate,
			DataSource:      staleSource,
			Stale:           true,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	json.NewEncoder(w).Encode(resp)
}

// Currencies handles GET /currencies
func (h *ConversionHandler) Currencies(w http.ResponseWriter, r *http.Request) {
	list := h.service.SupportedCurrencies(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CurrenciesResponse{Currencies: list})
}

// HistoricalRates handles GET /rates/history?from=USD&to=EUR&days=7
func (h *ConversionHandler) HistoricalRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" || from == to {
		sendErrorResponse(w, h.logger, "Invalid currency pair",
			"Historical rates require two distinct currency codes", http.StatusBadRequest, requestID)
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			sendErrorResponse(w, h.logger, "Invalid days parameter",
				"The 'days' query parameter must be a positive integer", http.StatusBadRequest, requestID)
			return
		}
		days = parsed
	}

	rates, err := h.service.HistoricalRates(r.Context(), from, to, days)
	if err != nil {
		h.logger.Warn("Historical lookup returned nothing", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, err.Error(), "", http.StatusNotFound, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HistoricalRatesResponse{
		Success:      true,
		FromCurrency: from,
		ToCurrency:   to,
		Rates:        rates,
	})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods("GET")
	router.HandleFunc("/currencies", h.Currencies).Methods("GET")
	router.HandleFunc("/rates/history", h.HistoricalRates).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /convert",
			"GET /currencies",
			"GET /rates/history",
		},
	})
}

// sendErrorResponse writes a standardized error body.
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}
