// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the API server configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Environment is the deployment environment name.
	Environment string

	// OWMAPIKey is the OpenWeatherMap API key used for geocoding.
	OWMAPIKey string

	// GeocodingBaseURL overrides the OpenWeatherMap geocoding base URL.
	GeocodingBaseURL string

	// ForecastBaseURL overrides the Open-Meteo base URL.
	ForecastBaseURL string

	// ForecastDays is the forecast window length.
	ForecastDays int

	// ForecastTimezone is the IANA timezone for daily bucketing.
	ForecastTimezone string

	// KnowledgeBasePath locates the crop knowledge base document.
	KnowledgeBasePath string

	// ProviderTimeout bounds each outbound provider call.
	ProviderTimeout time.Duration

	// OTelEnabled turns on trace/metric export.
	OTelEnabled bool

	// OTLPEndpoint is the OTLP gRPC collector endpoint.
	OTLPEndpoint string
}

// FromEnv creates a Config from environment variables, applying defaults
// for everything except the OpenWeatherMap API key.
func FromEnv() Config {
	forecastDays, _ := strconv.Atoi(getEnvOrDefault("FORECAST_DAYS", "16"))
	providerTimeout, _ := time.ParseDuration(getEnvOrDefault("PROVIDER_TIMEOUT", "15s"))

	return Config{
		Port:              getEnvOrDefault("APP_PORT", "8080"),
		Environment:       getEnvOrDefault("APP_ENV", "development"),
		OWMAPIKey:         os.Getenv("OWM_API_KEY"),
		GeocodingBaseURL:  os.Getenv("OWM_GEO_URL"),
		ForecastBaseURL:   os.Getenv("OPEN_METEO_URL"),
		ForecastDays:      forecastDays,
		ForecastTimezone:  getEnvOrDefault("FORECAST_TIMEZONE", "Asia/Kolkata"),
		KnowledgeBasePath: getEnvOrDefault("KNOWLEDGE_BASE_PATH", "crop_knowledgebase.json"),
		ProviderTimeout:   providerTimeout,
		OTelEnabled:       os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
