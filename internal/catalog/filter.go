package catalog

import (
	"strings"

	"tokotopup/internal/models"
)

// FilterProducts returns the sellable items matching provider and
// category, cheapest first. An empty filter matches every item.
func FilterProducts(items []models.Item, provider, category string) []models.Item {
	provSlug, catSlug := Slugify(provider), Slugify(category)

	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if HasTopupMarker(item) {
			continue
		}
		if provider != "" && !slugMatch(candidates(item, providerKeys...), provSlug) {
			continue
		}
		if category != "" && !slugMatch(candidates(item, "category", "type", "group"), catSlug) {
			continue
		}
		out = append(out, item)
	}
	SortByPrice(out)
	return out
}

// ProviderProducts selects the items of a provider page. Items without
// any category field are accepted for every category, and when nothing
// matches the category the provider's items from all categories are used.
func ProviderProducts(items []models.Item, category, provider string) []models.Item {
	provSlug, catSlug := Slugify(provider), Slugify(category)

	sellable := make([]models.Item, 0, len(items))
	for _, item := range items {
		if !HasTopupMarker(item) {
			sellable = append(sellable, item)
		}
	}

	products := make([]models.Item, 0)
	for _, item := range sellable {
		if !slugMatch(candidates(item, providerKeys...), provSlug) {
			continue
		}
		cats := candidates(item, categoryKeys...)
		if len(cats) > 0 && !slugMatch(cats, catSlug) {
			continue
		}
		products = append(products, item)
	}

	if len(products) == 0 {
		for _, item := range sellable {
			if slugMatch(candidates(item, providerKeys...), provSlug) {
				products = append(products, item)
			}
		}
	}

	SortByPrice(products)
	return products
}

// DisplayNames picks the category and provider names shown on a provider
// page, falling back to the slugs from the URL.
func DisplayNames(products []models.Item, category, provider string) (categoryName, providerName string) {
	if len(products) == 0 {
		return category, provider
	}

	sample := products[0]
	for _, p := range products {
		if Truthy(p["provider"]) {
			sample = p
			break
		}
	}
	providerName = String(First(sample, "provider", "layanan", "service", "operator"))
	if providerName == "" {
		providerName = provider
	}

	catSample := products[0]
	for _, p := range products {
		if First(p, categoryKeys...) != nil {
			catSample = p
			break
		}
	}
	categoryName = String(First(catSample, categoryKeys...))
	if categoryName == "" {
		categoryName = category
	}
	return categoryName, providerName
}

// FilterProviders returns the providers of a category. The "all" category
// returns every provider unchanged.
func FilterProviders(providers []models.Provider, category string) []models.Provider {
	if category == allCategorySlug {
		return providers
	}

	slug := Slugify(category)
	needle := strings.ToLower(category)
	out := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		if p.Type == slug || (p.Name != "" && strings.Contains(strings.ToLower(p.Name), needle)) {
			out = append(out, p)
		}
	}
	sortByName(out, func(p models.Provider) string { return p.Name })
	return out
}

func slugMatch(values []string, slug string) bool {
	for _, v := range values {
		s := Slugify(v)
		if strings.Contains(s, slug) || strings.Contains(slug, s) {
			return true
		}
	}
	return false
}
