package models

// Item is a single supplier price list entry. The supplier sends loosely
// typed objects, so every field it returns is kept as is.
type Item map[string]interface{}

// Clone returns a shallow copy of the item.
func (it Item) Clone() Item {
	cp := make(Item, len(it))
	for k, v := range it {
		cp[k] = v
	}
	return cp
}

// Category groups price list items for the storefront navigation.
type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Provider is an operator or brand shown on the storefront.
type Provider struct {
	Slug     string      `json:"slug"`
	Name     string      `json:"name"`
	Subtitle string      `json:"subtitle"`
	ImgURL   interface{} `json:"img_url"`
	Img      interface{} `json:"img"`
	Count    int         `json:"count"`
	Type     string      `json:"type"` // slug of the category the provider belongs to
}

// Meta is the category and provider index derived from a price list.
type Meta struct {
	Categories []Category `json:"categories"`
	Providers  []Provider `json:"providers"`
}
