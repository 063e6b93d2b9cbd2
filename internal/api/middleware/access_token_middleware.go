package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const AccessTokenKey = "access_token"

// AccessToken lifts a platform user token from the access_token query
// parameter or an Authorization: Bearer header into c.Locals. Requests
// without one pass through; the platform call reports the missing token.
func AccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("access_token")
		if token == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if scheme, value, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
				token = strings.TrimSpace(value)
			}
		}
		if token != "" {
			c.Locals(AccessTokenKey, token)
		}
		return c.Next()
	}
}
