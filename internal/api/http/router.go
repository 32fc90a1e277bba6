package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-resolution-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Webhooks    *handlers.WebhookHandler
	Resolve     *handlers.ResolveHandler
	Resolutions *handlers.ResolutionsHandler
	Metrics     *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	app.Post("/resolve", cfg.Resolve.Resolve)

	if cfg.Webhooks != nil {
		app.Post("/webhooks/tickets", cfg.Webhooks.HandleTicket)
	}
	if cfg.Resolutions != nil {
		app.Get("/resolutions/:ticket_id", cfg.Resolutions.GetLatest)
	}
}
