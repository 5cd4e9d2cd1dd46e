package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tokotopup/internal/services"
)

// CatalogHandler serves the price list API.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/price-list", h.HandlePriceList)
	router.Get("/categories", h.HandleCategories)
	router.Get("/providers", h.HandleProviders)
	router.Get("/products", h.HandleProducts)
}

func list(c *fiber.Ctx, count int, data interface{}) error {
	return c.JSON(fiber.Map{
		"ok":    true,
		"count": count,
		"data":  data,
	})
}

// HandlePriceList returns the whole sellable price list.
func (h *CatalogHandler) HandlePriceList(c *fiber.Ctx) error {
	items := h.service.PriceList(c.UserContext())
	return list(c, len(items), items)
}

// HandleCategories returns the ordered categories.
func (h *CatalogHandler) HandleCategories(c *fiber.Ctx) error {
	categories := h.service.Meta(c.UserContext()).Categories
	return list(c, len(categories), categories)
}

// HandleProviders returns the providers of ?category=, every provider by default.
func (h *CatalogHandler) HandleProviders(c *fiber.Ctx) error {
	providers := h.service.Providers(c.UserContext(), c.Query("category", "all"))
	return list(c, len(providers), providers)
}

// HandleProducts returns the products matching ?provider= and ?category=.
func (h *CatalogHandler) HandleProducts(c *fiber.Ctx) error {
	products := h.service.Products(c.UserContext(), c.Query("provider"), c.Query("category"))
	return list(c, len(products), products)
}
