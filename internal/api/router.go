// Package api provides the HTTP API for the agri-weather advisory
// service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fasalmitra/fasalmitra/internal/api/handler"
	"github.com/fasalmitra/fasalmitra/internal/api/middleware"
	"github.com/fasalmitra/fasalmitra/internal/knowledge"
	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Resolver   handler.DistrictResolver
	Normalizer handler.ForecastNormalizer
	Analyzer   handler.Analyzer

	KnowledgeBase *knowledge.KnowledgeBase
	Providers     *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fasalmitra-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.ContentTypeJSON)

	forecastHandler := handler.NewForecastHandler(cfg.Resolver, cfg.Normalizer, cfg.Analyzer)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.KnowledgeBase, cfg.Providers)

	forecastRateLimit := middleware.RateLimitByIP(middleware.ForecastRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	// The advisory endpoint keeps its historical path for tool-calling
	// clients.
	r.With(forecastRateLimit).Get("/get_agri_weather_forecast", forecastHandler.GetAgriWeatherForecast)

	r.Route("/v1/ops", func(r chi.Router) {
		r.Use(standardRateLimit)
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/status", opsHandler.SystemStatus)
	})

	return r
}
