package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-resolution-service/internal/api/dto"
	"github.com/spec-kit/order-resolution-service/internal/service"
	apperrors "github.com/spec-kit/order-resolution-service/pkg/util/errorutil"
)

// WebhookHandler receives helpdesk ticket webhooks.
type WebhookHandler struct {
	service *service.ResolutionService
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(resolutionService *service.ResolutionService) *WebhookHandler {
	return &WebhookHandler{service: resolutionService}
}

// HandleTicket POST /webhooks/tickets.
func (h *WebhookHandler) HandleTicket(c *fiber.Ctx) error {
	var req dto.TicketWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"error": err.Error()})
	}
	ticket, orders, warnings, err := req.ToDomain()
	if err != nil {
		return err
	}

	result, err := h.service.ResolveTicket(c.UserContext(), service.TicketResolutionInput{
		Ticket:         ticket,
		EmbeddedOrders: orders,
		Warnings:       warnings,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
