package handlers

import (
	"errors"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"tokotopup/internal/models"
	"tokotopup/internal/repositories"
	"tokotopup/internal/services"
)

// PageHandler serves the data behind the storefront pages.
type PageHandler struct {
	catalog  *services.CatalogService
	deposits *services.DepositService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(catalog *services.CatalogService, deposits *services.DepositService) *PageHandler {
	return &PageHandler{
		catalog:  catalog,
		deposits: deposits,
	}
}

// RegisterRoutes registers the page routes. The provider page pattern
// matches any two segments, so it must be registered after every other
// route.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/payment", h.HandlePayment)
	router.Get("/status", h.HandleStatus)
	router.Get("/:category/:provider", h.HandleProvider)
}

func (h *PageHandler) HandleHome(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Home(c.UserContext()))
}

func (h *PageHandler) HandleProvider(c *fiber.Ctx) error {
	return c.JSON(h.catalog.ProviderPage(c.UserContext(), pathParam(c, "category"), pathParam(c, "provider")))
}

// pathParam returns the percent-decoded route parameter. Malformed escapes
// are passed through as sent.
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// HandlePayment shows the stored order of ?trx_id=.
func (h *PageHandler) HandlePayment(c *fiber.Ctx) error {
	trxID := c.Query("trx_id")
	if trxID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Parameter trx_id diperlukan",
		})
	}

	view := models.PaymentView{TrxID: trxID, NotFound: true}
	order, err := h.deposits.GetOrder(trxID)
	switch {
	case err == nil:
		view.Order = order
		view.NotFound = false
	case !errors.Is(err, repositories.ErrOrderNotFound):
		log.Printf("Error reading order %s: %v", trxID, err)
	}
	return c.JSON(view)
}

func (h *PageHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "status"})
}
