// Package forecast normalizes raw daily and hourly weather data into
// per-day observations for agronomic analysis.
package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Provider defines the interface for forecast data providers.
type Provider interface {
	// FetchDaily fetches daily-resolution fields for a location.
	FetchDaily(ctx context.Context, lat, lon float64) ([]DailyRecord, error)

	// FetchHourlyHumidity fetches hourly relative humidity for a location.
	FetchHourlyHumidity(ctx context.Context, lat, lon float64) ([]HumiditySample, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the forecast service.
type ServiceConfig struct {
	// Provider is the forecast data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service produces normalized per-day observations from a forecast provider.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new forecast service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Normalize fetches daily fields and hourly humidity for a location and
// merges them into one observation per calendar date, ordered ascending.
//
// The two provider calls are independent and issued concurrently; both are
// awaited before merging. The humidity series is aggregated to daily means
// and reindexed onto the daily date axis with forward fill then backward
// fill, so every day has a humidity value unless the hourly series was
// entirely empty.
func (s *Service) Normalize(ctx context.Context, lat, lon float64) ([]DailyObservation, error) {
	var (
		wg     sync.WaitGroup
		daily  []DailyRecord
		hourly []HumiditySample
		dErr   error
		hErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		daily, dErr = s.provider.FetchDaily(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		hourly, hErr = s.provider.FetchHourlyHumidity(ctx, lat, lon)
	}()
	wg.Wait()

	if dErr != nil {
		s.logger.Error().Err(dErr).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch daily forecast")
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, dErr)
	}
	if hErr != nil {
		s.logger.Error().Err(hErr).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch hourly humidity")
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, hErr)
	}

	if len(daily) == 0 {
		return nil, ErrEmptyForecast
	}

	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})

	humidity := mergeHumidity(daily, hourly)

	observations := make([]DailyObservation, len(daily))
	for i, rec := range daily {
		observations[i] = DailyObservation{
			Date:      rec.Date,
			TempMax:   rec.TempMax,
			TempMin:   rec.TempMin,
			PrecipMM:  rec.PrecipMM,
			WindSpeed: rec.WindSpeed,
			WindGusts: rec.WindGusts,
			Humidity:  humidity[i],
		}
	}

	s.logger.Debug().
		Int("days", len(observations)).
		Str("provider", s.provider.Name()).
		Msg("forecast normalized")

	return observations, nil
}

// mergeHumidity aggregates hourly samples to one mean per calendar date and
// reindexes the result onto the daily date axis, filling gaps forward then
// backward. Days with no reachable value stay NaN.
func mergeHumidity(daily []DailyRecord, hourly []HumiditySample) []float64 {
	type acc struct {
		sum   float64
		count int
	}

	byDate := make(map[string]*acc, len(daily))
	for _, sample := range hourly {
		key := sample.Time.Format(dateLayout)
		a := byDate[key]
		if a == nil {
			a = &acc{}
			byDate[key] = a
		}
		a.sum += sample.Humidity
		a.count++
	}

	means := make([]float64, len(daily))
	for i, rec := range daily {
		if a, ok := byDate[rec.Date.String()]; ok && a.count > 0 {
			means[i] = a.sum / float64(a.count)
		} else {
			means[i] = math.NaN()
		}
	}

	// Forward fill, then backward fill.
	last := math.NaN()
	for i := range means {
		if !math.IsNaN(means[i]) {
			last = means[i]
		} else if !math.IsNaN(last) {
			means[i] = last
		}
	}
	next := math.NaN()
	for i := len(means) - 1; i >= 0; i-- {
		if !math.IsNaN(means[i]) {
			next = means[i]
		} else if !math.IsNaN(next) {
			means[i] = next
		}
	}

	return means
}
