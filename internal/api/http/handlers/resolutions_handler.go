package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-resolution-service/internal/api/dto"
	"github.com/spec-kit/order-resolution-service/internal/service"
)

// ResolutionsHandler exposes the resolution audit trail.
type ResolutionsHandler struct {
	service *service.ResolutionService
}

// NewResolutionsHandler constructs handler.
func NewResolutionsHandler(resolutionService *service.ResolutionService) *ResolutionsHandler {
	return &ResolutionsHandler{service: resolutionService}
}

// GetLatest GET /resolutions/:ticket_id.
func (h *ResolutionsHandler) GetLatest(c *fiber.Ctx) error {
	resolution, err := h.service.GetLatestResolution(c.UserContext(), c.Params("ticket_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewResolutionResponse(resolution)})
}
