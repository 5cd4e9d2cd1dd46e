package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMinimumDeposit is the minimum advertised for the promoted QRIS method.
const DefaultMinimumDeposit = 500

var (
	ewalletPattern  = regexp.MustCompile(`e-?wallet|gopay|ovo|dana|linkaja|shopeepay`)
	bankPattern     = regexp.MustCompile(`bank`)
	vaPattern       = regexp.MustCompile(`va\b|virtual`)
	qrisPattern     = regexp.MustCompile(`qris`)
	qrisFastPattern = regexp.MustCompile(`qris.*fast|qrisfast|qris-?fast`)

	minimumFields = []string{
		"min_deposit", "minimum_deposit", "min", "minimum", "minimal", "min_amount",
		"minAmount", "minimumAmount", "min_deposit_amount",
	}
	limitMinimumFields = []string{"min", "minimum", "min_deposit"}
)

// RankMethods orders deposit methods for display: e-wallets first, then
// banks, then virtual accounts, then everything else, keeping supplier
// order within a group. One QRIS method is moved to the top with its
// minimum lowered to minimum; a "QRIS fast" variant is preferred and the
// remaining plain QRIS methods are hidden.
func RankMethods(items []interface{}, minimum float64) []interface{} {
	sorted := make([]interface{}, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return methodRank(sorted[i]) < methodRank(sorted[j])
	})

	idx := indexOf(sorted, isQrisFast)
	if idx == -1 {
		idx = indexOf(sorted, isPlainQris)
	}
	if idx == -1 {
		return sorted
	}

	promoted := sorted[idx]
	applyMinimum(promoted, minimum)

	out := make([]interface{}, 0, len(sorted))
	out = append(out, promoted)
	for i, it := range sorted {
		if i == idx || it == nil || isPlainQris(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func methodRank(it interface{}) int {
	m, _ := it.(map[string]interface{})
	s := strings.ToLower(String(First(m, "type", "method", "metode", "category", "kategori", "name", "nama")))
	switch {
	case ewalletPattern.MatchString(s):
		return 0
	case bankPattern.MatchString(s):
		return 1
	case vaPattern.MatchString(s):
		return 2
	default:
		return 3
	}
}

func methodName(it interface{}) string {
	m, _ := it.(map[string]interface{})
	return strings.ToLower(String(First(m, "method", "metode", "name", "nama", "type", "code", "id")))
}

func isQrisFast(it interface{}) bool {
	return qrisFastPattern.MatchString(methodName(it))
}

func isPlainQris(it interface{}) bool {
	n := methodName(it)
	return qrisPattern.MatchString(n) && !qrisFastPattern.MatchString(n)
}

func indexOf(items []interface{}, pred func(interface{}) bool) int {
	for i, it := range items {
		if pred(it) {
			return i
		}
	}
	return -1
}

// applyMinimum overwrites every minimum field present on the method and on
// its limit objects. A method without any minimum gets "min_deposit".
func applyMinimum(it interface{}, minimum float64) {
	m, ok := it.(map[string]interface{})
	if !ok {
		return
	}

	found := setMinimum(m, minimumFields, minimum)
	for _, key := range []string{"limit", "limits"} {
		if limit, ok := m[key].(map[string]interface{}); ok {
			setMinimum(limit, minimumFields, minimum)
			if hasAny(limit, limitMinimumFields) {
				found = true
			}
		}
	}
	if !found {
		m["min_deposit"] = minimum
	}
}

func setMinimum(m map[string]interface{}, fields []string, minimum float64) bool {
	found := false
	for _, f := range fields {
		if _, ok := m[f]; ok {
			m[f] = minimum
			found = true
		}
	}
	return found
}

func hasAny(m map[string]interface{}, fields []string) bool {
	for _, f := range fields {
		if _, ok := m[f]; ok {
			return true
		}
	}
	return false
}
