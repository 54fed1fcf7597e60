package middleware

import (
	"shopsmart/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ServiceAuth guards maintenance routes with a service bearer token. The chat
// route stays public; there is no per-user auth in this service.
func ServiceAuth(tokens *auth.ServiceTokenManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if token == "" {
			logger.Warn("Missing authorization token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}

		// Remove "Bearer " prefix if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		subject, err := tokens.Validate(token)
		if err != nil {
			logger.Warn("Invalid service token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("caller", subject)

		return c.Next()
	}
}
