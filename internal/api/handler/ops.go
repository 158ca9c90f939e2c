// Package handler provides HTTP handlers for the Weather Pro API.
package handler

import (
	"net/http"
	"time"

	"github.com/weatherpro/weatherpro/internal/api/models"
	"github.com/weatherpro/weatherpro/internal/api/response"
	"github.com/weatherpro/weatherpro/internal/provider/resilience"
)

// RefreshStats exposes refresh job counters. *worker.RefreshJob implements it.
type RefreshStats interface {
	MetricsSnapshot() map[string]interface{}
}

// OpsHandlerConfig holds dependencies for OpsHandler.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string
	Dashboard DashboardReader

	// Registry and Refresh are optional.
	Registry *resilience.Registry
	Refresh  RefreshStats
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	dashboard DashboardReader
	registry  *resilience.Registry
	refresh   RefreshStats
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		dashboard: cfg.Dashboard,
		registry:  cfg.Registry,
		refresh:   cfg.Refresh,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
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

// ReadinessCheck handles GET /v1/ops/ready - ready once a snapshot is loaded.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if _, err := h.dashboard.Current(); err != nil {
		health.Status = models.HealthStatusFail
		health.Details = map[string]interface{}{
			"reason": err.Error(),
			"city":   h.dashboard.City(),
		}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		City:      h.dashboard.City(),
		Providers: h.providerStatuses(),
	}

	dashboard := models.SubsystemStatus{Name: "dashboard", Status: models.HealthStatusOK}
	if _, err := h.dashboard.Current(); err != nil {
		detail := err.Error()
		dashboard.Status = models.HealthStatusDegraded
		dashboard.Detail = &detail
	}
	status.Subsystems = []models.SubsystemStatus{dashboard}

	for _, s := range status.Subsystems {
		status.Status = worse(status.Status, s.Status)
	}
	for _, p := range status.Providers {
		status.Status = worse(status.Status, p.Status)
	}

	if h.refresh != nil {
		status.Refresh = h.refresh.MetricsSnapshot()
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) providerStatuses() []models.ProviderStatus {
	if h.registry == nil {
		return []models.ProviderStatus{}
	}

	all := h.registry.GetAllHealth()
	statuses := make([]models.ProviderStatus, 0, len(all))
	for _, ph := range all {
		ps := models.ProviderStatus{
			Provider:      ph.Name,
			Status:        models.HealthStatusOK,
			CircuitState:  ph.CircuitState.String(),
			Requests:      ph.Counts.Requests,
			Failures:      ph.Counts.ConsecutiveFailures,
			LastSuccessAt: models.NewTimestamp(ph.LastSuccessAt),
			LastFailureAt: models.NewTimestamp(ph.LastFailureAt),
		}
		switch {
		case ph.IsUnhealthy():
			ps.Status = models.HealthStatusFail
		case ph.IsDegraded():
			ps.Status = models.HealthStatusDegraded
		}
		if ph.LastError != "" {
			msg := ph.LastError
			ps.Message = &msg
		}
		statuses = append(statuses, ps)
	}
	return statuses
}

var statusRank = map[models.HealthStatus]int{
	models.HealthStatusOK:       0,
	models.HealthStatusDegraded: 1,
	models.HealthStatusFail:     2,
}

func worse(a, b models.HealthStatus) models.HealthStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}
