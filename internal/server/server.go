// Package server assembles the HTTP application.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokotopup/internal/handlers"
	"tokotopup/internal/middleware"
	"tokotopup/internal/services"
)

// Deps are the services the application serves.
type Deps struct {
	Catalog    *services.CatalogService
	Deposits   *services.DepositService
	Auth       *services.AuthService
	AllowedIPs []string
	// Events reports the state of the event publisher on /health.
	Events string
}

// NewApp builds the Fiber application with every route registered.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "tokotopup",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.Metrics())

	events := deps.Events
	if events == "" {
		events = "disabled"
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", middleware.AllowIPs(deps.AllowedIPs))
	handlers.NewCatalogHandler(deps.Catalog).RegisterRoutes(api)
	handlers.NewDepositHandler(deps.Deposits).RegisterRoutes(api)
	if deps.Auth.Enabled() {
		handlers.NewAdminHandler(deps.Auth, deps.Deposits, deps.Catalog).RegisterRoutes(api)
	}

	handlers.NewPageHandler(deps.Catalog, deps.Deposits).RegisterRoutes(app)

	return app
}
