package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"tokotopup/internal/metrics"
)

// Metrics records request counts and latency per route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		path := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		metrics.HTTPResponseTime.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
