package catalog

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"tokotopup/internal/models"
)

// priceKeys are the fields different supplier feeds use for the selling price.
var priceKeys = []string{"price", "harga", "amount", "nominal", "sell_price", "sellPrice", "value", "selling_price"}

var nonNumeric = regexp.MustCompile(`[^0-9.-]+`)

// ParseNumber reads a number out of a loosely formatted value such as
// "Rp 10.500" by dropping everything except digits, dots and minus signs.
// A value left empty by the stripping reads as zero.
func ParseNumber(v interface{}) (float64, bool) {
	s := nonNumeric.ReplaceAllString(String(v), "")
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ItemPrice returns the first readable price of an item, or 0.
func ItemPrice(item models.Item) float64 {
	for _, k := range priceKeys {
		v, ok := item[k]
		if !present(v, ok) {
			continue
		}
		if n, ok := ParseNumber(v); ok {
			return n
		}
	}
	return 0
}

// SortByPrice orders items by ascending price, keeping supplier order on ties.
func SortByPrice(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return ItemPrice(items[i]) < ItemPrice(items[j])
	})
}

// applyMarkup raises every price field by percent, rounding up to a whole
// unit. The supplier price is kept under "_orig_<key>".
func applyMarkup(item models.Item, percent float64) {
	factor := decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100)).Add(decimal.NewFromInt(1))
	for _, k := range priceKeys {
		v, ok := item[k]
		if !present(v, ok) {
			continue
		}
		n, ok := ParseNumber(v)
		if !ok {
			continue
		}
		item["_orig_"+k] = n
		item[k] = decimal.NewFromFloat(n).Mul(factor).Ceil().InexactFloat64()
	}
}
