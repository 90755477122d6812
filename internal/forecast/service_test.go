package forecast_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/fasalmitra/internal/forecast"
)

// mockProvider is a mock forecast provider for testing.
type mockProvider struct {
	mu        sync.Mutex
	callCount int
	daily     []forecast.DailyRecord
	hourly    []forecast.HumiditySample
	dailyErr  error
	hourlyErr error
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) FetchDaily(_ context.Context, _, _ float64) ([]forecast.DailyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.dailyErr != nil {
		return nil, m.dailyErr
	}
	return m.daily, nil
}

func (m *mockProvider) FetchHourlyHumidity(_ context.Context, _, _ float64) ([]forecast.HumiditySample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.hourlyErr != nil {
		return nil, m.hourlyErr
	}
	return m.hourly, nil
}

func (m *mockProvider) getCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func mustDate(t *testing.T, s string) forecast.Date {
	t.Helper()
	d, err := forecast.ParseDate(s)
	require.NoError(t, err)
	return d
}

func hourOf(t *testing.T, date string, hour int) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed.Add(time.Duration(hour) * time.Hour)
}

func TestService_Normalize(t *testing.T) {
	provider := &mockProvider{
		daily: []forecast.DailyRecord{
			{Date: mustDate(t, "2026-01-10"), TempMax: 24, TempMin: 9, PrecipMM: 0, WindSpeed: 12, WindGusts: 25},
			{Date: mustDate(t, "2026-01-11"), TempMax: 26, TempMin: 11, PrecipMM: 2.4, WindSpeed: 14, WindGusts: 30},
		},
		hourly: []forecast.HumiditySample{
			{Time: hourOf(t, "2026-01-10", 6), Humidity: 80},
			{Time: hourOf(t, "2026-01-10", 14), Humidity: 40},
			{Time: hourOf(t, "2026-01-11", 6), Humidity: 70},
		},
	}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	obs, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, "2026-01-10", obs[0].Date.String())
	assert.Equal(t, 24.0, obs[0].TempMax)
	assert.Equal(t, 9.0, obs[0].TempMin)
	assert.Equal(t, 60.0, obs[0].Humidity) // mean of 80 and 40

	assert.Equal(t, "2026-01-11", obs[1].Date.String())
	assert.Equal(t, 70.0, obs[1].Humidity)

	// Both provider calls issued.
	assert.Equal(t, 2, provider.getCallCount())
}

func TestService_Normalize_SortsByDate(t *testing.T) {
	provider := &mockProvider{
		daily: []forecast.DailyRecord{
			{Date: mustDate(t, "2026-01-12"), TempMax: 28},
			{Date: mustDate(t, "2026-01-10"), TempMax: 24},
			{Date: mustDate(t, "2026-01-11"), TempMax: 26},
		},
	}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	obs, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.NoError(t, err)
	require.Len(t, obs, 3)

	assert.Equal(t, "2026-01-10", obs[0].Date.String())
	assert.Equal(t, "2026-01-11", obs[1].Date.String())
	assert.Equal(t, "2026-01-12", obs[2].Date.String())
}

func TestService_Normalize_HumidityForwardFill(t *testing.T) {
	// Humidity only covers the first day; later days take the last known
	// value.
	provider := &mockProvider{
		daily: []forecast.DailyRecord{
			{Date: mustDate(t, "2026-01-10")},
			{Date: mustDate(t, "2026-01-11")},
			{Date: mustDate(t, "2026-01-12")},
		},
		hourly: []forecast.HumiditySample{
			{Time: hourOf(t, "2026-01-10", 6), Humidity: 55},
		},
	}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	obs, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.NoError(t, err)
	require.Len(t, obs, 3)

	assert.Equal(t, 55.0, obs[0].Humidity)
	assert.Equal(t, 55.0, obs[1].Humidity)
	assert.Equal(t, 55.0, obs[2].Humidity)
}

func TestService_Normalize_HumidityBackwardFill(t *testing.T) {
	// Humidity only covers the last day; earlier days take the next known
	// value.
	provider := &mockProvider{
		daily: []forecast.DailyRecord{
			{Date: mustDate(t, "2026-01-10")},
			{Date: mustDate(t, "2026-01-11")},
		},
		hourly: []forecast.HumiditySample{
			{Time: hourOf(t, "2026-01-11", 6), Humidity: 65},
		},
	}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	obs, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, 65.0, obs[0].Humidity)
	assert.Equal(t, 65.0, obs[1].Humidity)
}

func TestService_Normalize_NoHumidityData(t *testing.T) {
	provider := &mockProvider{
		daily: []forecast.DailyRecord{
			{Date: mustDate(t, "2026-01-10"), TempMax: 24},
		},
	}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	obs, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.NoError(t, err)
	require.Len(t, obs, 1)

	assert.True(t, math.IsNaN(obs[0].Humidity))
}

func TestService_Normalize_EmptyForecast(t *testing.T) {
	provider := &mockProvider{}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	_, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrEmptyForecast)
}

func TestService_Normalize_DailyError(t *testing.T) {
	provider := &mockProvider{
		dailyErr: errors.New("api error"),
	}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	_, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrProviderUnavailable)
}

func TestService_Normalize_HourlyError(t *testing.T) {
	provider := &mockProvider{
		daily: []forecast.DailyRecord{
			{Date: mustDate(t, "2026-01-10")},
		},
		hourlyErr: errors.New("api error"),
	}

	service := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	_, err := service.Normalize(context.Background(), 26.45, 80.33)
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrProviderUnavailable)
}
