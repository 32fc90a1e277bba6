package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-resolution-service/internal/observability"
)

// MetricsHandler serves the in-memory counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Get GET /metrics.
func (h *MetricsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
