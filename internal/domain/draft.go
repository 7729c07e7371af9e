package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DraftItem is one line of an in-progress order. Every field is optional;
// the draft carries whatever the caller has said so far.
type DraftItem struct {
	ItemID              string   `json:"item_id,omitempty"`
	Name                string   `json:"name,omitempty"`
	Quantity            int      `json:"quantity,omitempty"`
	Size                string   `json:"size,omitempty"`
	Modifiers           []string `json:"modifiers,omitempty"`
	Addons              []string `json:"addons,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

// OrderDraft accumulates partial knowledge of an order across turns.
type OrderDraft struct {
	CustomerName        string      `json:"customer_name,omitempty"`
	OrderType           string      `json:"order_type,omitempty"`
	Items               []DraftItem `json:"items,omitempty"`
	Subtotal            *float64    `json:"subtotal,omitempty"`
	Tax                 *float64    `json:"tax,omitempty"`
	Total               *float64    `json:"total,omitempty"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	ConfidenceNotes     string      `json:"confidence_notes,omitempty"`
}

// IsEmpty reports whether nothing is known yet.
func (d OrderDraft) IsEmpty() bool {
	return d.CustomerName == "" &&
		d.OrderType == "" &&
		len(d.Items) == 0 &&
		d.Subtotal == nil && d.Tax == nil && d.Total == nil &&
		d.SpecialInstructions == "" &&
		d.ConfidenceNotes == ""
}

// OrderItems converts the draft lines to finalized order lines. Call only
// after validation reported no missing fields.
func (d OrderDraft) OrderItems() OrderItems {
	items := make(OrderItems, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, OrderItem{
			ItemID:              it.ItemID,
			Name:                it.Name,
			Quantity:            it.Quantity,
			Size:                it.Size,
			Modifiers:           it.Modifiers,
			Addons:              it.Addons,
			SpecialInstructions: it.SpecialInstructions,
		})
	}
	return items
}

func (d OrderDraft) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *OrderDraft) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = OrderDraft{}
		return nil
	default:
		return fmt.Errorf("unsupported type %T for OrderDraft", value)
	}
}
