package models

// HomeView is the data the storefront home page is rendered with.
type HomeView struct {
	Categories       []Category `json:"categories"`
	Providers        []Provider `json:"providers"`
	RawProductsCount int        `json:"rawProductsCount"`
}

// ProviderView is the data a provider product page is rendered with.
type ProviderView struct {
	CategorySlug    string `json:"categorySlug"`
	ProviderSlug    string `json:"providerSlug"`
	Products        []Item `json:"products"`
	CategoryName    string `json:"categoryName"`
	ProviderName    string `json:"providerName"`
	ShowAllCategory bool   `json:"showAllCategory"`
}

// PaymentView is the data the payment page is rendered with.
type PaymentView struct {
	TrxID    string `json:"trx_id"`
	Order    *Order `json:"order"`
	NotFound bool   `json:"notfound"`
}
