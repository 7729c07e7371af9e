package domain

// Menu is the catalog of everything the restaurant sells. It is loaded
// once at startup and never mutated afterwards.
type Menu struct {
	Categories []MenuCategory `json:"categories"`
}

type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type MenuItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Variants []string `json:"variants,omitempty"` // size labels, e.g. small/medium/large
	Addons   []string `json:"addons,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// HasVariant reports whether size is one of the item's declared variants.
func (i MenuItem) HasVariant(size string) bool {
	for _, v := range i.Variants {
		if v == size {
			return true
		}
	}
	return false
}
