package services

import (
	"context"
	"log"

	"tokotopup/internal/cache"
	"tokotopup/internal/catalog"
	"tokotopup/internal/models"
)

// CatalogConfig configures the price list fetch.
type CatalogConfig struct {
	PriceListType string
	ProfitPercent float64
}

// CatalogService serves the storefront catalog built from the supplier price list.
type CatalogService struct {
	supplier Supplier
	cache    *cache.Cache
	cfg      CatalogConfig
}

// NewCatalogService creates a new CatalogService. A nil cache fetches the
// price list on every call.
func NewCatalogService(supplier Supplier, c *cache.Cache, cfg CatalogConfig) *CatalogService {
	if cfg.PriceListType == "" {
		cfg.PriceListType = "prabayar"
	}
	return &CatalogService{
		supplier: supplier,
		cache:    c,
		cfg:      cfg,
	}
}

// PriceList returns the normalized price list. Supplier failures are
// logged and produce an empty list, which is not cached.
func (s *CatalogService) PriceList(ctx context.Context) []models.Item {
	if s.cache != nil {
		if items, ok := s.cache.Get(s.cfg.PriceListType); ok {
			return items
		}
	}

	payload, err := s.supplier.PriceList(ctx, s.cfg.PriceListType)
	if err != nil {
		log.Printf("fetchPriceList error: %v", err)
		return []models.Item{}
	}

	items := catalog.Normalize(payload.Items(), s.cfg.ProfitPercent)
	if s.cache != nil {
		s.cache.Set(s.cfg.PriceListType, items)
	}
	return items
}

// Meta returns the category and provider index of the current price list.
func (s *CatalogService) Meta(ctx context.Context) models.Meta {
	return catalog.ExtractMeta(s.PriceList(ctx))
}

// Home builds the home page view.
func (s *CatalogService) Home(ctx context.Context) models.HomeView {
	items := s.PriceList(ctx)
	meta := catalog.ExtractMeta(items)
	return models.HomeView{
		Categories:       meta.Categories,
		Providers:        meta.Providers,
		RawProductsCount: len(items),
	}
}

// Products returns the items of provider and category, cheapest first.
func (s *CatalogService) Products(ctx context.Context, provider, category string) []models.Item {
	return catalog.FilterProducts(s.PriceList(ctx), provider, category)
}

// Providers returns the providers listed under category.
func (s *CatalogService) Providers(ctx context.Context, category string) []models.Provider {
	return catalog.FilterProviders(s.Meta(ctx).Providers, category)
}

// ProviderPage builds the product page of one provider within a category.
func (s *CatalogService) ProviderPage(ctx context.Context, category, provider string) models.ProviderView {
	products := catalog.ProviderProducts(s.PriceList(ctx), category, provider)
	categoryName, providerName := catalog.DisplayNames(products, category, provider)
	return models.ProviderView{
		CategorySlug:    category,
		ProviderSlug:    provider,
		Products:        products,
		CategoryName:    categoryName,
		ProviderName:    providerName,
		ShowAllCategory: true,
	}
}

// Refresh drops the cached price list.
func (s *CatalogService) Refresh() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
