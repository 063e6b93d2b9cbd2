package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

type ContentHandler struct {
	images service.ImageService
	sites  service.SiteService
}

func NewContentHandler(images service.ImageService, sites service.SiteService) *ContentHandler {
	return &ContentHandler{images: images, sites: sites}
}

func (h *ContentHandler) GenerateImage(c *fiber.Ctx) error {
	var req transfer.GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.images.Generate(c.Context(), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ContentHandler) CheckWordPress(c *fiber.Ctx) error {
	var req transfer.CheckWordPressRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.sites.CheckWordPress(c.Context(), req.URL)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
