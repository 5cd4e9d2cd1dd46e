package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// AllowIPs only lets requests from the listed client addresses through.
// An empty list allows everyone.
func AllowIPs(ips []string) fiber.Handler {
	allowed := make(map[string]bool, len(ips))
	for _, ip := range ips {
		allowed[ip] = true
	}

	return func(c *fiber.Ctx) error {
		if len(allowed) == 0 || allowed[c.IP()] {
			return c.Next()
		}
		log.Printf("Rejected request from %s to %s", c.IP(), c.Path())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"ok":      false,
			"message": "forbidden",
		})
	}
}
