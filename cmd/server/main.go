package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fxconv/currency-conversion-system/internal/application/service"
	"github.com/fxconv/currency-conversion-system/internal/config"
	"github.com/fxconv/currency-conversion-system/internal/domain/repository"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/api"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/cache"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/handler"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/logger"
	"github.com/fxconv/currency-conversion-system/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()
	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	log.Info("Starting currency conversion service", map[string]interface{}{
		"addr":       cfg.Addr,
		"cache_file": cfg.CacheFile,
	})

	// Rate cache, loaded once; a missing or broken store starts empty.
	rateCache := cache.NewFileRateCache(cfg.CacheFile, log, cache.WithTTL(cfg.CacheTTL))

	// Providers, in fallback order. The primary also serves the currency
	// list and the historical lookups.
	primary := api.NewExchangeRateAPIClient(cfg.ExchangeRateAPIURL, nil, log)
	secondary := api.NewFixerAPIClient(cfg.FixerAPIURL, cfg.FixerAPIKey, nil, log)

	rateService := service.NewRateService(
		[]repository.RateProvider{primary, secondary},
		primary, primary, log)
	conversionService := service.NewConversionService(rateService, rateCache, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))

	handler.NewConversionHandler(conversionService, log).RegisterRoutes(router)
	handler.NewCacheHandler(rateCache, log).RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", map[string]interface{}{"error": err.Error()})
	}
}
