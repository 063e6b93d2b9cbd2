package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/ghostwriter/internal/api/middleware"
	"github.com/maheshrc27/ghostwriter/internal/service"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

// GetAccessToken returns the platform token found by middleware.AccessToken.
func GetAccessToken(c *fiber.Ctx) string {
	token, _ := c.Locals(middleware.AccessTokenKey).(string)
	return token
}

var sentinels = []error{
	service.ErrInvalidInput,
	service.ErrNotConfigured,
	service.ErrPostNotFound,
	service.ErrUpstream,
	service.ErrPublishInProgress,
}

// errorMessage drops the sentinel prefix so clients see only the detail,
// e.g. "NANOBANANA_API_KEY not configured in environment variables".
func errorMessage(err error) string {
	msg := err.Error()
	for _, s := range sentinels {
		if errors.Is(err, s) {
			if detail, ok := strings.CutPrefix(msg, s.Error()+": "); ok {
				return detail
			}
		}
	}
	return msg
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNotConfigured):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrPublishInProgress):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// sendError writes err with the status of its sentinel class. Unclassified
// errors are logged and hidden behind a generic message.
func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	msg := errorMessage(err)
	if status == fiber.StatusInternalServerError {
		slog.Info(msg)
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func platformStatus(res *transfer.PlatformResult) int {
	if res.Success {
		return fiber.StatusOK
	}
	if res.Failure == transfer.FailureConfig {
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Unable to parse json",
	})
}
