package handler

import (
	"net/http"
	"time"

	"github.com/fasalmitra/fasalmitra/internal/api/models"
	"github.com/fasalmitra/fasalmitra/internal/api/response"
	"github.com/fasalmitra/fasalmitra/internal/knowledge"
	"github.com/fasalmitra/fasalmitra/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	kb        *knowledge.KnowledgeBase
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, kb *knowledge.KnowledgeBase, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		kb:        kb,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Not ready
// without a loaded knowledge base.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.kb == nil || len(h.kb.Crops()) == 0 {
		response.ServiceUnavailable(w, r, "crop knowledge base is not loaded")
		return
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - knowledge base and upstream
// provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}
	if h.kb != nil {
		status.Crops = h.kb.Crops()
	}

	if h.registry != nil {
		for _, health := range h.registry.AllHealth() {
			providerStatus := models.HealthStatusOK
			if !health.IsHealthy() {
				providerStatus = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
			}
			status.Providers = append(status.Providers, models.ProviderStatus{
				Provider: health.Name,
				Status:   providerStatus,
			})
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
