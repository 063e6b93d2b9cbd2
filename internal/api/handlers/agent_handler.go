package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type AgentHandler struct {
	s service.AgentService
}

func NewAgentHandler(service service.AgentService) *AgentHandler {
	return &AgentHandler{s: service}
}

func (h *AgentHandler) RunFullCycle(c *fiber.Ctx) error {
	var req transfer.RunCycleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.s.RunFullCycle(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// RunAgent serves /agents/:slug. An empty body is allowed; the agent's
// default prompt is used.
func (h *AgentHandler) RunAgent(c *fiber.Ctx) error {
	var req transfer.AgentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}

	resp, err := h.s.RunAgent(c.Context(), c.Params("slug"), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AgentHandler) Refine(c *fiber.Ctx) error {
	var req transfer.RefineRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.s.Refine(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
