// Package handler provides HTTP handlers for the dashboard API.
package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/nodewatch/nodewatch/internal/api/models"
	"github.com/nodewatch/nodewatch/internal/api/response"
	"github.com/nodewatch/nodewatch/internal/node"
	"github.com/nodewatch/nodewatch/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	nodes     *node.Registry
	health    *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. nodes and health may be nil.
func NewOpsHandler(version, buildTime string, nodes *node.Registry, health *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		nodes:     nodes,
		health:    health,
	}
}

// HealthCheck handles GET /ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /ops/ready - readiness check.
// The service is ready once it has at least one node to serve.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	if h.nodes == nil || h.nodes.Len() == 0 {
		health.Status = models.HealthStatusFail
		health.Details = map[string]interface{}{"reason": "no nodes registered"}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /ops/status - upstream provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: []models.ProviderStatus{},
	}
	if h.nodes != nil {
		status.Nodes = h.nodes.Len()
	}

	if h.health != nil {
		for _, ph := range h.health.GetAllHealth() {
			ps := providerStatus(ph)
			status.Providers = append(status.Providers, ps)
			status.Status = worst(status.Status, ps.Status)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatus(ph *resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:      ph.Name,
		Status:        models.HealthStatusOK,
		CircuitState:  ph.CircuitState.String(),
		LastSuccessAt: models.TimestampPtr(ph.LastSuccessAt),
		LastFailureAt: models.TimestampPtr(ph.LastFailureAt),
	}

	switch {
	case ph.CircuitState == gobreaker.StateOpen:
		ps.Status = models.HealthStatusFail
	case ph.CircuitState == gobreaker.StateHalfOpen:
		ps.Status = models.HealthStatusDegraded
	case resilience.DefaultReadyToTrip(ph.Counts):
		// Breaker kept closed, but the upstream keeps failing.
		ps.Status = models.HealthStatusDegraded
	}

	if ph.LastError != "" && ps.Status != models.HealthStatusOK {
		msg := ph.LastError
		ps.Message = &msg
	}

	return ps
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	rank := map[models.HealthStatus]int{
		models.HealthStatusOK:       0,
		models.HealthStatusDegraded: 1,
		models.HealthStatusFail:     2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
