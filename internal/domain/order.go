package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPrinted   OrderStatus = "printed"
)

// OrderItem is one fully resolved line of a finalized order. Every field
// except size/modifiers/addons/instructions is required.
type OrderItem struct {
	ItemID              string   `json:"item_id"`
	Name                string   `json:"name"`
	Quantity            int      `json:"quantity"`
	Size                string   `json:"size,omitempty"`
	Modifiers           []string `json:"modifiers,omitempty"`
	Addons              []string `json:"addons,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

// OrderItems is stored as a single JSON column.
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	case nil:
		*items = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for OrderItems", value)
	}
}

// Order is a confirmed, priced order. Once built it only changes status
// (received -> confirmed -> printed).
type Order struct {
	ID              string      `json:"order_id" gorm:"primaryKey"`
	Timestamp       time.Time   `json:"timestamp"`
	CustomerName    string      `json:"customer_name,omitempty"`
	CallerPhone     string      `json:"caller_phone"`
	OrderType       string      `json:"order_type"`
	Items           OrderItems  `json:"items" gorm:"type:jsonb"`
	Subtotal        *float64    `json:"subtotal,omitempty"`
	Tax             *float64    `json:"tax,omitempty"`
	Total           *float64    `json:"total,omitempty"`
	Status          OrderStatus `json:"status"`
	RawTranscript   string      `json:"raw_transcript"`
	ConfidenceNotes string      `json:"confidence_notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}
