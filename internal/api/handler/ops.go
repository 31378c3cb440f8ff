// Package handler provides HTTP handlers for the WeatherWise API.
package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/weatherwise/weatherwise/internal/api/models"
	"github.com/weatherwise/weatherwise/internal/api/response"
	"github.com/weatherwise/weatherwise/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	live      bool
	registry  *resilience.Registry
	critical  []string
	now       func() time.Time
}

// OpsConfig configures an OpsHandler.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Live reports whether the pipeline serves live provider data.
	Live bool

	// Registry supplies provider circuit health (optional).
	Registry *resilience.Registry

	// Critical names the providers readiness depends on. Empty means every
	// registered provider must be failing before readiness fails.
	Critical []string

	Now func() time.Time
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		live:      cfg.Live,
		registry:  cfg.Registry,
		critical:  cfg.Critical,
		now:       now,
	}
}

func (h *OpsHandler) dataMode() models.DataMode {
	if h.live {
		return models.DataModeLive
	}
	return models.DataModeFallback
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. The service is not ready while
// it depends on live data and a critical provider circuit is open (every
// circuit, when no critical providers are configured). The fallback path is
// always ready.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	if h.live && !h.providersReady(h.providerStatuses()) {
		status = models.HealthStatusFail
	}

	code := http.StatusOK
	if status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}

	response.JSON(w, r, code, models.Health{
		Status:  status,
		Time:    models.Timestamp(h.now()),
		Details: map[string]any{"dataMode": h.dataMode()},
	})
}

// SystemStatus handles GET /v1/ops/status - provider circuit health and data mode.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	providers := h.providerStatuses()

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:    worst(providers),
		Time:      models.Timestamp(h.now()),
		Version:   h.version,
		DataMode:  h.dataMode(),
		Providers: providers,
	})
}

func (h *OpsHandler) providerStatuses() []models.ProviderStatus {
	statuses := []models.ProviderStatus{}
	if h.registry == nil {
		return statuses
	}

	for _, health := range h.registry.GetAllHealth() {
		ps := models.ProviderStatus{
			Provider:     health.Name,
			Status:       providerStatus(health),
			CircuitState: health.CircuitState.String(),
			Requests:     health.Counts.Requests,
			Failures:     health.Counts.ConsecutiveFailures,
		}
		if health.LastSuccessAt != nil {
			ps.LastSuccessAt = models.TimestampPtr(*health.LastSuccessAt)
		}
		if health.LastFailureAt != nil {
			ps.LastFailureAt = models.TimestampPtr(*health.LastFailureAt)
		}
		if health.LastError != "" {
			msg := health.LastError
			ps.Message = &msg
		}
		statuses = append(statuses, ps)
	}
	return statuses
}

func providerStatus(health *resilience.ProviderHealth) models.HealthStatus {
	switch {
	case health.IsUnhealthy():
		return models.HealthStatusFail
	case health.IsDegraded():
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

// worst folds provider statuses into the service status. The API itself
// keeps answering while a circuit is open, so that only degrades it.
func worst(providers []models.ProviderStatus) models.HealthStatus {
	status := models.HealthStatusOK
	for _, p := range providers {
		switch p.Status {
		case models.HealthStatusFail:
			return models.HealthStatusDegraded
		case models.HealthStatusDegraded:
			status = models.HealthStatusDegraded
		}
	}
	return status
}

func (h *OpsHandler) providersReady(providers []models.ProviderStatus) bool {
	if len(h.critical) == 0 {
		if len(providers) == 0 {
			return true
		}
		for _, p := range providers {
			if p.Status != models.HealthStatusFail {
				return true
			}
		}
		return false
	}

	for _, p := range providers {
		if slices.Contains(h.critical, p.Provider) && p.Status == models.HealthStatusFail {
			return false
		}
	}
	return true
}
