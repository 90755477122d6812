// Package openweathermap provides a geocoding provider backed by the
// OpenWeatherMap direct geocoding API.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/fasalmitra/fasalmitra/internal/geocode"
	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap geocoding API base URL.
	DefaultBaseURL = "https://api.openweathermap.org"
)

// RequestRecorder records the outcome of one outbound provider request.
type RequestRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// ClientConfig holds configuration for the OpenWeatherMap geocoding client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Metrics records per-request provider metrics (optional).
	Metrics RequestRecorder

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap geocoding API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	metrics    RequestRecorder
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Lookup resolves a free-text place name to coordinates.
func (c *Client) Lookup(ctx context.Context, name string, limit int) ([]geocode.Location, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("appid", c.apiKey)

	reqURL := fmt.Sprintf("%s/geo/1.0/direct?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, "direct_geocoding", time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var matches []directGeocodingResult
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	locations := make([]geocode.Location, 0, len(matches))
	for _, m := range matches {
		locations = append(locations, geocode.Location{
			Name:    m.Name,
			Lat:     m.Lat,
			Lon:     m.Lon,
			Country: m.Country,
			State:   m.State,
		})
	}

	return locations, nil
}

// directGeocodingResult is one match from the OWM direct geocoding API.
type directGeocodingResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}
