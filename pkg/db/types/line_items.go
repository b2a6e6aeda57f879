package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderLineItem is the denormalized product snapshot stored inside an order.
// It mirrors the cart line item at the moment the order was placed.
type OrderLineItem struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	OriginalPrice *int64 `json:"original_price,omitempty"`
	Image         string `json:"image,omitempty"`
	Category      string `json:"category,omitempty"`
	Quantity      int    `json:"quantity"`
}

// OrderLineItems serializes to a JSON column.
type OrderLineItems []OrderLineItem

func (l OrderLineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("OrderLineItems: marshal: %w", err)
	}
	return string(raw), nil
}

func (l *OrderLineItems) Scan(src any) error {
	if src == nil {
		*l = OrderLineItems{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("OrderLineItems: unsupported Scan type %T", src)
	}
	if len(raw) == 0 {
		*l = OrderLineItems{}
		return nil
	}
	return json.Unmarshal(raw, l)
}
