package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// SharedSecret guards the staff dashboard and admin API with a single
// deployment-wide token, accepted from the X-Auth-Token header or a token
// query parameter so plain browser links work.
func SharedSecret(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Dashboard access is not configured"})
		}

		provided := c.Get("X-Auth-Token")
		if provided == "" {
			provided = c.Query("token")
		}
		if provided == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing auth token"})
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid auth token"})
		}

		return c.Next()
	}
}
