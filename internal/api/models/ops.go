// Package models holds the HTTP surface's request/response models.
package models

import "time"

// HealthStatus values.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// Health is the liveness/readiness response body.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ProviderStatus reports one upstream provider's circuit state.
type ProviderStatus struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
}

// SystemStatus is the ops status response body.
type SystemStatus struct {
	Status    string           `json:"status"`
	Time      time.Time        `json:"time"`
	Crops     []string         `json:"crops"`
	Providers []ProviderStatus `json:"providers"`
}
