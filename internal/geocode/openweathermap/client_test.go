package openweathermap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/fasalmitra/internal/geocode/openweathermap"
	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
)

type recordedRequest struct {
	provider  string
	operation string
	err       error
}

type mockRecorder struct {
	mu    sync.Mutex
	calls []recordedRequest
}

func (m *mockRecorder) RecordRequest(provider, operation string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedRequest{provider: provider, operation: operation, err: err})
}

func (m *mockRecorder) getCalls() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.calls...)
}

func TestClient_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "Kanpur Nagar", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "****", r.URL.Query().Get("appid"))

		response := []map[string]interface{}{
			{
				"name":    "Kanpur",
				"lat":     26.4499,
				"lon":     80.3319,
				"country": "IN",
				"state":   "Uttar Pradesh",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	locations, err := client.Lookup(context.Background(), "Kanpur Nagar", 5)
	require.NoError(t, err)
	require.Len(t, locations, 1)

	assert.Equal(t, "Kanpur", locations[0].Name)
	assert.Equal(t, 26.4499, locations[0].Lat)
	assert.Equal(t, 80.3319, locations[0].Lon)
	assert.Equal(t, "IN", locations[0].Country)
	assert.Equal(t, "Uttar Pradesh", locations[0].State)
}

func TestClient_Lookup_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	locations, err := client.Lookup(context.Background(), "Atlantis", 5)
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestClient_Lookup_RecordsProviderMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	recorder := &mockRecorder{}
	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     "****",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
		Metrics:    recorder,
	})

	_, err := client.Lookup(context.Background(), "Kanpur Nagar", 5)
	require.NoError(t, err)

	calls := recorder.getCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, openweathermap.ProviderName, calls[0].provider)
	assert.Equal(t, "direct_geocoding", calls[0].operation)
	assert.NoError(t, calls[0].err)
}

func TestClient_Lookup_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:     "bad-key",
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	_, err := client.Lookup(context.Background(), "Kanpur Nagar", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}
