package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tokotopup/internal/models"
)

const (
	allCategorySlug = "all"
	plnSlug         = "pln"
	voucherSlug     = "voucher"
)

// prioritySlugs are shown right after "Semua", in this order.
var prioritySlugs = []string{
	"games",
	"voucher",
	"akun-premium",
	"data-internet",
	"pulsa-reguler",
	"pulsa-transfer",
}

// Normalize cleans a raw supplier price list for display: names are
// sanitized, prices are marked up by profitPercent and supplier top-up
// entries are dropped. The input items are not modified.
func Normalize(raw []models.Item, profitPercent float64) []models.Item {
	out := make([]models.Item, 0, len(raw))
	for _, item := range raw {
		cp := sanitizeItem(item)
		if profitPercent > 0 {
			applyMarkup(cp, profitPercent)
		}
		if HasTopupMarker(cp) {
			continue
		}
		out = append(out, cp)
	}
	return out
}

func sanitizeItem(item models.Item) models.Item {
	cp := item.Clone()
	cp["layanan"] = SanitizeName(String(First(item, "layanan", "name", "title")))
	for _, k := range []string{"name", "title", "provider", "category"} {
		if v := item[k]; Truthy(v) {
			cp[k] = SanitizeName(String(v))
		}
	}
	return cp
}

// HasTopupMarker reports whether any provider, name or category field of
// the item ends with "topup".
func HasTopupMarker(item models.Item) bool {
	for _, v := range candidates(item, topupProviderKeys...) {
		if EndsWithTopup(v) {
			return true
		}
	}
	for _, v := range candidates(item, categoryKeys...) {
		if EndsWithTopup(v) {
			return true
		}
	}
	return false
}

// ExtractMeta builds the category and provider index of a price list.
//
// Categories start with the synthetic "all" entry, followed by the
// priority categories that exist and then the rest by name. Providers are
// ordered by name. The PLN provider is listed under vouchers.
func ExtractMeta(items []models.Item) models.Meta {
	sanitized := make([]models.Item, 0, len(items))
	for _, item := range items {
		cp := sanitizeItem(item)
		if HasTopupMarker(cp) {
			continue
		}
		sanitized = append(sanitized, cp)
	}

	var (
		providers  []*models.Provider
		categories []*models.Category
		provBySlug = make(map[string]*models.Provider)
		catBySlug  = make(map[string]*models.Category)
	)

	for _, item := range sanitized {
		providerRaw := String(First(item, "provider", "layanan", "service", "operator", "name"))
		if providerRaw == "" {
			providerRaw = "Unknown"
		}
		providerName := SanitizeName(providerRaw)
		if providerName == "" {
			providerName = providerRaw
		}

		categoryRaw := String(First(item, "category", "type", "group"))
		if categoryRaw == "" {
			categoryRaw = "Other"
		}
		categoryName := SanitizeName(categoryRaw)
		if categoryName == "" {
			categoryName = categoryRaw
		}

		if EndsWithTopup(providerName) || EndsWithTopup(categoryName) {
			continue
		}

		pSlug := Slugify(providerName)
		cSlug := Slugify(categoryName)

		p, ok := provBySlug[pSlug]
		if !ok {
			p = &models.Provider{
				Slug:     pSlug,
				Name:     providerName,
				Subtitle: String(First(item, "subtitle", "provider", "layanan")),
				ImgURL:   First(item, "img_url", "img", "image", "logo"),
				Img:      First(item, "img", "image", "logo"),
				Type:     cSlug,
			}
			provBySlug[pSlug] = p
			providers = append(providers, p)
		}
		p.Count++

		c, ok := catBySlug[cSlug]
		if !ok {
			c = &models.Category{Slug: cSlug, Name: categoryName}
			catBySlug[cSlug] = c
			categories = append(categories, c)
		}
		c.Count++
	}

	if pln, ok := provBySlug[plnSlug]; ok {
		pln.Type = voucherSlug
		if v, ok := catBySlug[voucherSlug]; ok {
			v.Count += pln.Count
		} else {
			v = &models.Category{Slug: voucherSlug, Name: "Voucher", Count: pln.Count}
			catBySlug[voucherSlug] = v
			categories = append(categories, v)
		}
	}

	providerList := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		providerList = append(providerList, *p)
	}
	sortByName(providerList, func(p models.Provider) string { return displayKey(p.Name, p.Slug) })

	ordered := make([]models.Category, 0, len(categories)+1)
	ordered = append(ordered, models.Category{Slug: allCategorySlug, Name: "Semua", Count: len(sanitized)})

	taken := make(map[string]bool, len(prioritySlugs))
	for _, slug := range prioritySlugs {
		if c, ok := catBySlug[slug]; ok {
			ordered = append(ordered, *c)
			taken[slug] = true
		}
	}

	remaining := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if !taken[c.Slug] {
			remaining = append(remaining, *c)
		}
	}
	sortByName(remaining, func(c models.Category) string { return displayKey(c.Name, c.Slug) })

	return models.Meta{
		Categories: append(ordered, remaining...),
		Providers:  providerList,
	}
}

func displayKey(name, slug string) string {
	if name != "" {
		return name
	}
	return slug
}

// sortByName orders xs by Indonesian collation, ignoring case and accents.
// A collator is not safe for concurrent use, so each call builds its own.
func sortByName[T any](xs []T, key func(T) string) {
	c := collate.New(language.Indonesian, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(xs, func(i, j int) bool {
		return c.CompareString(key(xs[i]), key(xs[j])) < 0
	})
}
