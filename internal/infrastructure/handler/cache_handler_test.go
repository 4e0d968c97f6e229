// internal/infrastructure/handler/cache_handler_test.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fxconv/currency-conversion-system/internal/domain/entity"
	"github.com/fxconv/currency-conversion-system/internal/mocks"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheRouter(cache *mocks.MockRateCache) *mux.Router {
	router := mux.NewRouter()
	NewCacheHandler(cache, nil).RegisterRoutes(router)
	return router
}

func TestCacheInfoEndpoint(t *testing.T) {
	cache := new(mocks.MockRateCache)
	cache.On("Info").Return(entity.CacheInfo{
		ValidCount:    2,
		TotalCount:    3,
		LastUpdate:    "2024-03-01T12:00:00Z",
		StoreLocation: "/tmp/exchange_cache.json",
	}).Once()

	req := httptest.NewRequest(http.MethodGet, "/cache/info", nil)
	rec := httptest.NewRecorder()
	newCacheRouter(cache).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var info entity.CacheInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 2, info.ValidCount)
	assert.Equal(t, 3, info.TotalCount)
	cache.AssertExpectations(t)
}

func TestCacheClearEndpoint(t *testing.T) {
	cache := new(mocks.MockRateCache)
	cache.On("Clear").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/cache/clear", nil)
	rec := httptest.NewRecorder()
	newCacheRouter(cache).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cache.AssertExpectations(t)
}

func TestCacheClearExpiredEndpoint(t *testing.T) {
	cache := new(mocks.MockRateCache)
	cache.On("ClearExpired").Return(1, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/cache/clear-expired", nil)
	rec := httptest.NewRecorder()
	newCacheRouter(cache).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CacheClearResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Removed)
}

func TestCacheClearFailure(t *testing.T) {
	cache := new(mocks.MockRateCache)
	cache.On("Clear").Return(errors.New("failed to write cache store")).Once()

	req := httptest.NewRequest(http.MethodPost, "/cache/clear", nil)
	rec := httptest.NewRecorder()
	newCacheRouter(cache).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
