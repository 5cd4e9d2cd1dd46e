package middleware

import (
	"log"
	"strings"

	"tokotopup/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired admits requests carrying an operator token issued by
// authService and stores the operator name under Locals("username").
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", nil)
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'", nil)
		}

		username, err := authService.Operator(strings.TrimSpace(token))
		if err != nil {
			log.Printf("admin token rejected: %v", err)
			return unauthorized(c, "Invalid or expired token", err)
		}

		c.Locals("username", username)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{"ok": false, "message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusUnauthorized).JSON(body)
}
