package extraction

import (
	"testing"

	"github.com/seu-repo/takeaway-voice/internal/domain"
)

func TestMerge_EmptyNeverErases(t *testing.T) {
	existing := domain.OrderDraft{
		CustomerName: "Ana",
		OrderType:    "takeaway",
		Items:        []domain.DraftItem{{Name: "Margherita Pizza", Quantity: 1}},
	}

	merged := Merge(existing, domain.OrderDraft{})

	if merged.CustomerName != "Ana" || merged.OrderType != "takeaway" {
		t.Errorf("Empty incoming erased scalar fields: %+v", merged)
	}
	if len(merged.Items) != 1 {
		t.Errorf("Empty incoming erased items: %+v", merged.Items)
	}
}

func TestMerge_IncomingValuesWin(t *testing.T) {
	existing := domain.OrderDraft{CustomerName: "Ana", OrderType: "takeaway"}
	incoming := domain.OrderDraft{CustomerName: "Bruno"}

	merged := Merge(existing, incoming)

	if merged.CustomerName != "Bruno" {
		t.Errorf("Expected incoming name to win, got %s", merged.CustomerName)
	}
	if merged.OrderType != "takeaway" {
		t.Errorf("Expected existing order type to survive, got %s", merged.OrderType)
	}
}

func TestMerge_ItemsReplaceWholesale(t *testing.T) {
	existing := domain.OrderDraft{Items: []domain.DraftItem{
		{Name: "Margherita Pizza", Quantity: 2},
		{Name: "Veggie Burger", Quantity: 1},
	}}
	incoming := domain.OrderDraft{Items: []domain.DraftItem{
		{Name: "Pepperoni Pizza", Quantity: 1},
	}}

	merged := Merge(existing, incoming)

	if len(merged.Items) != 1 || merged.Items[0].Name != "Pepperoni Pizza" {
		t.Errorf("Expected wholesale item replacement, got %+v", merged.Items)
	}
}

func TestMerge_NilTotalsDoNotErase(t *testing.T) {
	total := 18.0
	existing := domain.OrderDraft{Total: &total}

	merged := Merge(existing, domain.OrderDraft{})

	if merged.Total == nil || *merged.Total != 18.0 {
		t.Errorf("Nil incoming total erased existing: %v", merged.Total)
	}
}
