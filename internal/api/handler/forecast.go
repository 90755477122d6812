// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/fasalmitra/fasalmitra/internal/agro"
	"github.com/fasalmitra/fasalmitra/internal/api/response"
	"github.com/fasalmitra/fasalmitra/internal/forecast"
	"github.com/fasalmitra/fasalmitra/internal/geocode"
)

// DistrictResolver resolves a district name to coordinates.
type DistrictResolver interface {
	Resolve(ctx context.Context, district string) (geocode.Location, error)
}

// ForecastNormalizer produces normalized per-day observations for a
// location.
type ForecastNormalizer interface {
	Normalize(ctx context.Context, lat, lon float64) ([]forecast.DailyObservation, error)
}

// Analyzer runs the agronomic rule engine over observations.
type Analyzer interface {
	Analyze(district string, observations []forecast.DailyObservation, cropName string) (*agro.ForecastResult, error)
}

// ForecastHandler handles the agri-weather forecast endpoint.
type ForecastHandler struct {
	resolver   DistrictResolver
	normalizer ForecastNormalizer
	analyzer   Analyzer
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(resolver DistrictResolver, normalizer ForecastNormalizer, analyzer Analyzer) *ForecastHandler {
	return &ForecastHandler{
		resolver:   resolver,
		normalizer: normalizer,
		analyzer:   analyzer,
	}
}

// GetAgriWeatherForecast handles
// GET /get_agri_weather_forecast?district=...&crop_name=...
//
// crop_name is optional; without it the response carries weather data and
// stress flags but no crop recommendations.
func (h *ForecastHandler) GetAgriWeatherForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	district := r.URL.Query().Get("district")
	if district == "" {
		response.BadRequest(w, r, "query parameter 'district' is required")
		return
	}
	cropName := r.URL.Query().Get("crop_name")

	loc, err := h.resolver.Resolve(ctx, district)
	if err != nil {
		if errors.Is(err, geocode.ErrNoMatch) {
			response.BadRequest(w, r, "no coordinates found for district '"+district+"'")
			return
		}
		response.BadGateway(w, r, "geocoding provider is unavailable")
		return
	}

	observations, err := h.normalizer.Normalize(ctx, loc.Lat, loc.Lon)
	if err != nil {
		if errors.Is(err, forecast.ErrEmptyForecast) {
			response.BadRequest(w, r, "forecast provider returned no data for district '"+district+"'")
			return
		}
		response.BadGateway(w, r, "forecast provider is unavailable")
		return
	}

	result, err := h.analyzer.Analyze(district, observations, cropName)
	if err != nil {
		response.InternalError(w, r, "forecast analysis failed")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
