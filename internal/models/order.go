package models

import (
	"encoding/json"
	"time"
)

// Order is a pending deposit kept locally until the provider reports a final state.
type Order struct {
	ID                string      `json:"id" gorm:"primaryKey;type:varchar(64)"`
	ReffID            string      `json:"reff_id" gorm:"index;type:varchar(64)"`
	Nominal           float64     `json:"nominal"`
	Type              string      `json:"type" gorm:"type:varchar(64)"`
	Method            string      `json:"method" gorm:"type:varchar(64)"`
	Status            string      `json:"status" gorm:"index;type:varchar(32)"` // e.g., "pending", "success"
	CreatedAt         time.Time   `json:"created_at"`
	ExpiredAt         time.Time   `json:"expired_at"`
	Product           interface{} `json:"product" gorm:"serializer:json;type:text"`
	AccountNumber     string      `json:"account_number,omitempty"`
	DestinationNumber string      `json:"destination_number,omitempty"`
	URL               string      `json:"url,omitempty"`
	QRString          string      `json:"qr_string,omitempty" gorm:"type:text"`
	QRImage           string      `json:"qr_image,omitempty" gorm:"type:text"`
	Addition          interface{} `json:"addition,omitempty" gorm:"serializer:json;type:text"`
	Fee               interface{} `json:"fee,omitempty" gorm:"serializer:json;type:text"`
	GetBalance        interface{} `json:"get_balance,omitempty" gorm:"serializer:json;type:text"`

	// Extra holds fields of a stored order that have no column here. They
	// are written back unchanged next to the known fields.
	Extra map[string]json.RawMessage `json:"-" gorm:"-"`
}

type orderFields Order

// MarshalJSON encodes the order together with its Extra fields. Known
// fields win over an Extra entry of the same name.
func (o Order) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(orderFields(o))
	if err != nil || len(o.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range o.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Expired reports whether a still pending order is past its expiry time.
func (o Order) Expired(now time.Time) bool {
	return o.Status == "pending" && !o.ExpiredAt.IsZero() && now.After(o.ExpiredAt)
}
