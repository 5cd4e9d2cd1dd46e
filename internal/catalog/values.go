package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"tokotopup/internal/models"
)

var (
	providerKeys      = []string{"provider", "layanan", "service", "operator", "name"}
	categoryKeys      = []string{"category", "type", "group", "service_type"}
	topupProviderKeys = []string{"provider", "layanan", "service", "operator", "name", "title"}
)

// Truthy follows the loose truthiness the supplier payloads are written
// against: nil, "", false and 0 are false, everything else is true.
func Truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// String renders a loosely typed value as text. Objects and arrays have no
// text form and render empty.
func String(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		switch reflect.ValueOf(x).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			return ""
		}
		return fmt.Sprint(x)
	}
}

// First returns the first truthy value among keys, or nil.
func First(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v := m[k]; Truthy(v) {
			return v
		}
	}
	return nil
}

func candidates(item models.Item, keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := item[k]; Truthy(v) {
			out = append(out, String(v))
		}
	}
	return out
}

func present(v interface{}, ok bool) bool {
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}
