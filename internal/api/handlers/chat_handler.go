package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type ChatHandler struct {
	s service.ChatService
}

func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{s: service}
}

func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req transfer.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.s.Chat(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
