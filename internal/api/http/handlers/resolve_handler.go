package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-resolution-service/internal/api/dto"
	"github.com/spec-kit/order-resolution-service/internal/service"
	"github.com/spec-kit/order-resolution-service/pkg/clock"
	apperrors "github.com/spec-kit/order-resolution-service/pkg/util/errorutil"
)

// ResolveHandler runs the matching engine on caller supplied data.
type ResolveHandler struct {
	clock clock.Clock
}

// NewResolveHandler constructs handler.
func NewResolveHandler(c clock.Clock) *ResolveHandler {
	return &ResolveHandler{clock: c}
}

// Resolve POST /resolve.
func (h *ResolveHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"error": err.Error()})
	}
	ticket, now, err := req.Normalize(h.clock.Now())
	if err != nil {
		return err
	}
	result := service.Evaluate(ticket, req.Candidates, req.Fulfillments, now)
	return c.JSON(fiber.Map{"data": result})
}
