package atlantic

import (
	"fmt"

	"tokotopup/internal/catalog"
	"tokotopup/internal/models"
)

// Payload is a decoded Atlantic response envelope.
type Payload map[string]interface{}

// Data returns the "data" field of the envelope.
func (p Payload) Data() interface{} {
	return p["data"]
}

// HasData reports whether the envelope carries a usable "data" field.
func (p Payload) HasData() bool {
	return catalog.Truthy(p["data"])
}

// DataMap returns "data" when it is an object.
func (p Payload) DataMap() map[string]interface{} {
	m, _ := p["data"].(map[string]interface{})
	return m
}

// DataList returns "data" when it is an array.
func (p Payload) DataList() []interface{} {
	l, _ := p["data"].([]interface{})
	return l
}

// Items returns the object elements of "data" as price list items.
func (p Payload) Items() []models.Item {
	list := p.DataList()
	items := make([]models.Item, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]interface{}); ok {
			items = append(items, models.Item(m))
		}
	}
	return items
}

// Message returns the provider's "message" field.
func (p Payload) Message() string {
	return catalog.String(p["message"])
}

// OK reports whether the provider flagged the call as successful.
func (p Payload) OK() bool {
	for _, k := range []string{"status", "ok", "success"} {
		if b, isBool := p[k].(bool); isBool && b {
			return true
		}
	}
	return false
}

// APIError is returned when the API answers with a non-2xx status. Body is
// the decoded envelope, or the raw text when it was not JSON.
type APIError struct {
	StatusCode int
	Body       interface{}
}

func (e *APIError) Error() string {
	if p, ok := e.Body.(Payload); ok && p.Message() != "" {
		return fmt.Sprintf("atlantic: status %d: %s", e.StatusCode, p.Message())
	}
	return fmt.Sprintf("atlantic: status %d", e.StatusCode)
}
