package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type PublishHandler struct {
	s service.PublishService
}

func NewPublishHandler(service service.PublishService) *PublishHandler {
	return &PublishHandler{s: service}
}

// Publish sends every item to its channel. Per-item failures are reported
// inside the result, so the request itself always succeeds.
func (h *PublishHandler) Publish(c *fiber.Ctx) error {
	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	return c.Status(fiber.StatusOK).JSON(h.s.PublishOrSchedule(c.Context(), req.Items))
}
