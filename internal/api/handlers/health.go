// Package handlers provides HTTP request handlers for the scanvault API.
// This file implements the health check endpoint.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/logging"
)

const healthCheckTimeout = 5 * time.Second

// Status constants.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// StorePinger defines the interface for store health checking.
type StorePinger interface {
	Ping(ctx context.Context) error
	Backend() string
}

// HealthHandler handles the health endpoint.
type HealthHandler struct {
	store     StorePinger
	logger    *logging.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(s StorePinger, logger *logging.Logger) *HealthHandler {
	return &HealthHandler{
		store:     s,
		logger:    logger.WithComponent("handler").WithFields("handler", "health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Health reports whether the store answers.
//
// @Summary Health check
// @Description Pings the document store.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    map[string]string{},
	}

	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Store health check failed", "backend", h.store.Backend(), "error", err)
		response.Status = StatusUnhealthy
		response.Checks["store"] = StatusUnhealthy + ": " + errors.PublicMessage(err)
		status = http.StatusServiceUnavailable
	} else {
		response.Checks["store"] = StatusHealthy
	}
	response.Checks["backend"] = h.store.Backend()

	writeJSON(w, status, response)
}
