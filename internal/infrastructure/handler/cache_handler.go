// Package handler internal/infrastructure/handler/cache_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fxconv/currency-conversion-system/internal/domain/repository"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// CacheHandler exposes the rate cache for display and maintenance.
type CacheHandler struct {
	cache  repository.RateCache
	logger logger.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cache repository.RateCache, log logger.Logger) *CacheHandler {
	if log == nil {
		log = logger.Discard()
	}

	return &CacheHandler{
		cache:  cache,
		logger: log,
	}
}

// Info handles GET /cache/info
func (h *CacheHandler) Info(w http.ResponseWriter, r *http.Request) {
	info := h.cache.Info()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// Clear handles POST /cache/clear
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.cache.Clear(); err != nil {
		h.logger.Error("Failed to clear cache", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Failed to clear cache",
			"The cache store could not be rewritten", http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Cache cleared", map[string]interface{}{"request_id": requestID})
	w.WriteHeader(http.StatusNoContent)
}

// ClearExpired handles POST /cache/clear-expired
func (h *CacheHandler) ClearExpired(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	removed, err := h.cache.ClearExpired()
	if err != nil {
		h.logger.Error("Failed to clear expired cache entries", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Failed to clear expired entries",
			"The cache store could not be rewritten", http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Expired cache entries cleared", map[string]interface{}{
		"request_id": requestID,
		"removed":    removed,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CacheClearResponse{Removed: removed})
}

// RegisterRoutes registers the cache handler routes
func (h *CacheHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/cache/info", h.Info).Methods("GET")
	router.HandleFunc("/cache/clear", h.Clear).Methods("POST")
	router.HandleFunc("/cache/clear-expired", h.ClearExpired).Methods("POST")

	h.logger.Info("Cache routes registered", map[string]interface{}{
		"routes": []string{
			"GET /cache/info",
			"POST /cache/clear",
			"POST /cache/clear-expired",
		},
	})
}
