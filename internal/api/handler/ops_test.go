package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/fasalmitra/internal/api/handler"
	"github.com/fasalmitra/fasalmitra/internal/api/models"
	"github.com/fasalmitra/fasalmitra/internal/knowledge"
	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
)

func opsKnowledgeBase(t *testing.T) *knowledge.KnowledgeBase {
	t.Helper()
	kb, err := knowledge.Parse([]byte(`{
	  "crops": [
	    {"name": "wheat", "rules": [{"when": "temp_min < 5", "severity": "high", "advisory": "frost risk"}]},
	    {"name": "rice", "rules": []}
	  ]
	}`))
	require.NoError(t, err)
	return kb
}

func TestOpsHandler_HealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "2026-01-01T00:00:00Z", opsKnowledgeBase(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()

	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Details["version"])
}

func TestOpsHandler_ReadinessCheck(t *testing.T) {
	h := handler.NewOpsHandler("test", "", opsKnowledgeBase(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()

	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpsHandler_ReadinessCheck_NoKnowledgeBase(t *testing.T) {
	h := handler.NewOpsHandler("test", "", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()

	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOpsHandler_SystemStatus(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("open-meteo", resilience.NewClient(resilience.DefaultClientConfig("open-meteo")))

	h := handler.NewOpsHandler("test", "", opsKnowledgeBase(t), registry)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	rec := httptest.NewRecorder()

	h.SystemStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))

	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.Equal(t, []string{"rice", "wheat"}, status.Crops)
	require.Len(t, status.Providers, 1)
	assert.Equal(t, models.HealthStatusOK, status.Providers[0].Status)
}
