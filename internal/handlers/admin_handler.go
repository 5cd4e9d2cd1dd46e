package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tokotopup/internal/middleware"
	"tokotopup/internal/repositories"
	"tokotopup/internal/services"
)

// AdminHandler serves the operator endpoints.
type AdminHandler struct {
	authService *services.AuthService
	deposits    *services.DepositService
	catalog     *services.CatalogService
	validate    *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *services.AuthService, deposits *services.DepositService, catalog *services.CatalogService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		deposits:    deposits,
		catalog:     catalog,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the admin routes. Everything except login
// requires a token.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin")
	admin.Post("/login", h.HandleLogin)

	protected := admin.Group("", middleware.AuthRequired(h.authService))
	protected.Get("/orders", h.HandleGetOrders)
	protected.Get("/orders/:id", h.HandleGetOrderByID)
	protected.Post("/orders/prune", h.HandlePruneOrders)
	protected.Post("/cache/refresh", h.HandleRefreshCache)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLogin checks the operator credentials and issues a JWT token.
func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err, "Validation failed")
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":      false,
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"message": "Login successful",
		"token":   token,
	})
}

// HandleGetOrders retrieves all stored orders.
func (h *AdminHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.deposits.ListOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return failed(c, "Could not retrieve orders", err)
	}
	return list(c, len(orders), orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *AdminHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.deposits.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok":      false,
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return failed(c, "Could not retrieve order", err)
	}
	return c.JSON(fiber.Map{"ok": true, "data": order})
}

// HandlePruneOrders removes pending orders past their expiry.
func (h *AdminHandler) HandlePruneOrders(c *fiber.Ctx) error {
	removed, err := h.deposits.PruneExpired()
	if err != nil {
		log.Printf("Error pruning orders: %v", err)
		return failed(c, "Could not prune orders", err)
	}
	log.Printf("Pruned %d expired orders", removed)
	return c.JSON(fiber.Map{"ok": true, "removed": removed})
}

// HandleRefreshCache drops the cached price list.
func (h *AdminHandler) HandleRefreshCache(c *fiber.Ctx) error {
	h.catalog.Refresh()
	return c.JSON(fiber.Map{"ok": true})
}
