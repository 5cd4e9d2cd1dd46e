package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metodes(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.(map[string]interface{})["metode"].(string))
	}
	return out
}

func TestRankMethods_PromotesQrisFast(t *testing.T) {
	qrisFast := map[string]interface{}{
		"metode": "QRISFAST",
		"type":   "ewallet",
		"limit":  map[string]interface{}{"min": 2000.0, "max": 5000000.0},
	}
	items := []interface{}{
		map[string]interface{}{"metode": "BCA", "type": "bank", "min": 10000.0},
		map[string]interface{}{"metode": "QRIS", "type": "ewallet", "min": 1000.0},
		map[string]interface{}{"metode": "OVO", "type": "ewallet"},
		map[string]interface{}{"metode": "BRIVA", "type": "va"},
		qrisFast,
		map[string]interface{}{"metode": "ALFAMART", "type": "retail"},
	}

	out := RankMethods(items, DefaultMinimumDeposit)

	assert.Equal(t, []string{"QRISFAST", "OVO", "BCA", "BRIVA", "ALFAMART"}, metodes(out))
	assert.Equal(t, 500.0, qrisFast["limit"].(map[string]interface{})["min"])
	assert.Equal(t, 5000000.0, qrisFast["limit"].(map[string]interface{})["max"])
	assert.NotContains(t, qrisFast, "min_deposit")

	// other methods keep their own minimum
	assert.Equal(t, 10000.0, out[2].(map[string]interface{})["min"])
}

func TestRankMethods_PromotesPlainQris(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"metode": "DANA", "type": "ewallet"},
		map[string]interface{}{"metode": "MANDIRI", "type": "bank"},
		map[string]interface{}{"metode": "QRIS", "type": "ewallet"},
		map[string]interface{}{"metode": "QRIS2", "type": "ewallet", "minimum": 1500.0},
	}

	out := RankMethods(items, 1000)

	require.Equal(t, []string{"QRIS", "DANA", "MANDIRI"}, metodes(out))
	assert.Equal(t, 1000.0, out[0].(map[string]interface{})["min_deposit"])
}

func TestRankMethods_OverwritesExistingMinimums(t *testing.T) {
	qris := map[string]interface{}{"method": "qris", "min_amount": 10000.0, "minimum_deposit": "10000"}
	RankMethods([]interface{}{qris}, DefaultMinimumDeposit)

	assert.Equal(t, 500.0, qris["min_amount"])
	assert.Equal(t, 500.0, qris["minimum_deposit"])
	assert.NotContains(t, qris, "min_deposit")
}

func TestRankMethods_WithoutQris(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"metode": "ALFAMART", "type": "retail"},
		map[string]interface{}{"metode": "BNIVA", "type": "virtual account"},
		map[string]interface{}{"metode": "BRI", "type": "bank"},
		map[string]interface{}{"metode": "GOPAY", "type": "gopay"},
	}

	out := RankMethods(items, DefaultMinimumDeposit)

	assert.Equal(t, []string{"GOPAY", "BRI", "BNIVA", "ALFAMART"}, metodes(out))
	assert.Equal(t, "ALFAMART", items[0].(map[string]interface{})["metode"], "input order is preserved")
}

func TestRankMethods_Empty(t *testing.T) {
	assert.Empty(t, RankMethods(nil, DefaultMinimumDeposit))
}
