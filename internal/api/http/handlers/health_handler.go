package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/observability"
)

// HealthHandler serves liveness and readiness probes. The store is in-memory,
// so readiness has no backing dependency to probe; it reports uptime and the
// request counters instead.
type HealthHandler struct {
	app     config.AppConfig
	metrics *observability.Metrics
	started time.Time
}

// NewHealthHandler constructs handler.
func NewHealthHandler(app config.AppConfig, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{app: app, metrics: metrics, started: time.Now()}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"name":    h.app.Name,
		"version": h.app.Version,
		"env":     h.app.Env,
	})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	requests, errors := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"requests":       requests,
		"errors":         errors,
	})
}
