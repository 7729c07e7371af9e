package order

import (
	"math"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/service/menu"
)

// Totals are nil when no line could be priced (menu without prices).
type Totals struct {
	Subtotal *float64
	Tax      *float64
	Total    *float64
}

// PriceItems sums catalog price x quantity over every line that resolves
// to a priced menu item. Unknown or unpriced lines contribute nothing.
func PriceItems(items []domain.OrderItem, catalog *menu.Catalog, taxRate float64) Totals {
	subtotal := 0.0
	pricedAny := false
	for _, item := range items {
		menuItem, ok := catalog.Lookup(item.Name)
		if !ok || menuItem.Price == nil {
			continue
		}
		pricedAny = true
		if item.Quantity > 0 {
			subtotal += *menuItem.Price * float64(item.Quantity)
		}
	}

	if !pricedAny {
		return Totals{}
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * taxRate)
	total := round2(subtotal + tax)
	return Totals{Subtotal: &subtotal, Tax: &tax, Total: &total}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
