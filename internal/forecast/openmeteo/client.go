// Package openmeteo provides a forecast provider backed by the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/fasalmitra/fasalmitra/internal/forecast"
	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
)

const (
	// ProviderName identifies this forecast provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo forecast API base URL.
	DefaultBaseURL = "https://api.open-meteo.com"

	// DefaultForecastDays is the forecast window length in days.
	DefaultForecastDays = 16

	// DefaultTimezone is the timezone used to bucket daily values.
	DefaultTimezone = "Asia/Kolkata"

	dailyFields  = "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,wind_gusts_10m_max"
	hourlyFields = "relative_humidity_2m"

	hourlyTimeLayout = "2006-01-02T15:04"
)

// RequestRecorder records the outcome of one outbound provider request.
type RequestRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to Open-Meteo).
	BaseURL string

	// ForecastDays is the window length (optional, defaults to 16).
	ForecastDays int

	// Timezone is the IANA timezone for daily bucketing (optional).
	Timezone string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Metrics records per-request provider metrics (optional).
	Metrics RequestRecorder

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo forecast API client.
type Client struct {
	baseURL      string
	forecastDays int
	timezone     string
	httpClient   *resilience.Client
	metrics      RequestRecorder
	logger       zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	forecastDays := cfg.ForecastDays
	if forecastDays == 0 {
		forecastDays = DefaultForecastDays
	}

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = DefaultTimezone
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:      baseURL,
		forecastDays: forecastDays,
		timezone:     timezone,
		httpClient:   httpClient,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchDaily fetches daily temperature, precipitation and wind fields.
func (c *Client) FetchDaily(ctx context.Context, lat, lon float64) ([]forecast.DailyRecord, error) {
	var resp dailyResponse
	if err := c.get(ctx, lat, lon, "daily", dailyFields, &resp); err != nil {
		return nil, err
	}

	n := len(resp.Daily.Time)
	records := make([]forecast.DailyRecord, 0, n)
	for i := 0; i < n; i++ {
		date, err := forecast.ParseDate(resp.Daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("parsing daily date %q: %w", resp.Daily.Time[i], err)
		}
		records = append(records, forecast.DailyRecord{
			Date:      date,
			TempMax:   at(resp.Daily.TemperatureMax, i),
			TempMin:   at(resp.Daily.TemperatureMin, i),
			PrecipMM:  at(resp.Daily.PrecipitationSum, i),
			WindSpeed: at(resp.Daily.WindSpeedMax, i),
			WindGusts: at(resp.Daily.WindGustsMax, i),
		})
	}

	return records, nil
}

// FetchHourlyHumidity fetches the hourly relative humidity series.
func (c *Client) FetchHourlyHumidity(ctx context.Context, lat, lon float64) ([]forecast.HumiditySample, error) {
	var resp hourlyResponse
	if err := c.get(ctx, lat, lon, "hourly", hourlyFields, &resp); err != nil {
		return nil, err
	}

	n := len(resp.Hourly.Time)
	if len(resp.Hourly.RelativeHumidity) < n {
		n = len(resp.Hourly.RelativeHumidity)
	}

	samples := make([]forecast.HumiditySample, 0, n)
	for i := 0; i < n; i++ {
		// Open-Meteo returns local wall-clock timestamps without a zone
		// suffix when a timezone parameter is supplied.
		t, err := time.Parse(hourlyTimeLayout, resp.Hourly.Time[i])
		if err != nil {
			return nil, fmt.Errorf("parsing hourly timestamp %q: %w", resp.Hourly.Time[i], err)
		}
		samples = append(samples, forecast.HumiditySample{
			Time:     t,
			Humidity: resp.Hourly.RelativeHumidity[i],
		})
	}

	return samples, nil
}

// get executes a forecast request for one resolution block.
func (c *Client) get(ctx context.Context, lat, lon float64, block, fields string, out interface{}) error {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set(block, fields)
	q.Set("timezone", c.timezone)
	q.Set("forecast_days", strconv.Itoa(c.forecastDays))

	reqURL := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, block, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// at guards against column arrays shorter than the time axis.
func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// Open-Meteo API response structures. The API returns columnar arrays
// aligned on the time axis.

type dailyResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WindSpeedMax     []float64 `json:"wind_speed_10m_max"`
		WindGustsMax     []float64 `json:"wind_gusts_10m_max"`
	} `json:"daily"`
}

type hourlyResponse struct {
	Hourly struct {
		Time             []string  `json:"time"`
		RelativeHumidity []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}
