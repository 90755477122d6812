// Package main provides the entrypoint for the FasalMitra API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fasalmitra/fasalmitra/internal/agro"
	"github.com/fasalmitra/fasalmitra/internal/api"
	"github.com/fasalmitra/fasalmitra/internal/api/middleware"
	"github.com/fasalmitra/fasalmitra/internal/config"
	"github.com/fasalmitra/fasalmitra/internal/forecast"
	"github.com/fasalmitra/fasalmitra/internal/forecast/openmeteo"
	"github.com/fasalmitra/fasalmitra/internal/geocode"
	"github.com/fasalmitra/fasalmitra/internal/geocode/openweathermap"
	"github.com/fasalmitra/fasalmitra/internal/knowledge"
	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
	"github.com/fasalmitra/fasalmitra/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fasalmitra-api"

	// Load .env if present; environment variables win either way.
	_ = godotenv.Load() //nolint:errcheck // a missing .env file is fine

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FasalMitra API")

	cfg := config.FromEnv()

	if cfg.OWMAPIKey == "" {
		log.Fatal().Msg("OWM_API_KEY is required for district geocoding")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Load the crop knowledge base. The service cannot produce crop
	// advisories without it, so a missing or malformed document is fatal.
	kb, err := knowledge.Load(cfg.KnowledgeBasePath)
	if err != nil {
		log.Fatal().Err(err).
			Str("path", cfg.KnowledgeBasePath).
			Msg("failed to load crop knowledge base")
	}
	log.Info().
		Str("path", cfg.KnowledgeBasePath).
		Strs("crops", kb.Crops()).
		Msg("crop knowledge base loaded")

	// Initialize resilient provider clients and register them for health
	// reporting.
	registry := resilience.NewRegistry()

	geocodeClientCfg := resilience.DefaultClientConfig(openweathermap.ProviderName)
	geocodeClientCfg.Timeout = cfg.ProviderTimeout
	geocodeHTTPClient := resilience.NewClient(geocodeClientCfg)
	registry.Register(openweathermap.ProviderName, geocodeHTTPClient)

	forecastClientCfg := resilience.DefaultClientConfig(openmeteo.ProviderName)
	forecastClientCfg.Timeout = cfg.ProviderTimeout
	forecastHTTPClient := resilience.NewClient(forecastClientCfg)
	registry.Register(openmeteo.ProviderName, forecastHTTPClient)

	// Initialize geocoding service
	geocodeClient := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     cfg.OWMAPIKey,
		BaseURL:    cfg.GeocodingBaseURL,
		HTTPClient: geocodeHTTPClient,
		Metrics:    providerMetrics,
		Logger:     log,
	})
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Provider: geocodeClient,
		Logger:   log,
	})
	log.Info().Msg("geocoding service initialized")

	// Initialize forecast service
	forecastClient := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:      cfg.ForecastBaseURL,
		ForecastDays: cfg.ForecastDays,
		Timezone:     cfg.ForecastTimezone,
		HTTPClient:   forecastHTTPClient,
		Metrics:      providerMetrics,
		Logger:       log,
	})
	forecastService := forecast.NewService(forecast.ServiceConfig{
		Provider: forecastClient,
		Logger:   log,
	})
	log.Info().
		Int("forecast_days", cfg.ForecastDays).
		Str("timezone", cfg.ForecastTimezone).
		Msg("forecast service initialized")

	// Initialize the agronomic analysis engine
	engine := agro.NewEngine(kb, log)
	log.Info().Msg("analysis engine initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		Resolver:      geocodeService,
		Normalizer:    forecastService,
		Analyzer:      engine,
		KnowledgeBase: kb,
		Providers:     registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
