package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/seu-repo/takeaway-voice/internal/domain"
)

// ErrInvalidMenu is wrapped by every menu validation failure.
var ErrInvalidMenu = errors.New("invalid menu")

// Catalog is an immutable, validated view of the menu with precomputed
// lookup and prompt text. Build one at startup and share it.
type Catalog struct {
	menu   domain.Menu
	lookup map[string]domain.MenuItem
	names  []string // normalized keys in catalog order
	prompt string
}

// Load reads and validates a menu file. Loading is all-or-nothing: a
// malformed file yields no catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidMenu, path, err)
	}
	var m domain.Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidMenu, path, err)
	}
	return New(m)
}

// New validates the menu and builds the catalog.
func New(m domain.Menu) (*Catalog, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}
	c := &Catalog{
		menu:   m,
		lookup: make(map[string]domain.MenuItem),
	}
	for _, category := range m.Categories {
		for _, item := range category.Items {
			key := Normalize(item.Name)
			if key == "" {
				continue
			}
			// Last write wins on normalized-name collisions; a collision
			// is a menu-authoring error, not a runtime condition.
			if _, seen := c.lookup[key]; !seen {
				c.names = append(c.names, key)
			}
			c.lookup[key] = item
		}
	}
	c.prompt = renderPrompt(m)
	return c, nil
}

// Empty returns a catalog with no items, used when menu loading fails and
// the service runs degraded.
func Empty() *Catalog {
	c, _ := New(domain.Menu{Categories: []domain.MenuCategory{}})
	return c
}

// Validate checks the structural invariants: a categories list, and a
// name, items list, id and name wherever required.
func Validate(m domain.Menu) error {
	if m.Categories == nil {
		return fmt.Errorf("%w: menu must include categories list", ErrInvalidMenu)
	}
	for _, category := range m.Categories {
		if category.Name == "" || category.Items == nil {
			return fmt.Errorf("%w: each category requires name and items", ErrInvalidMenu)
		}
		for _, item := range category.Items {
			if item.ID == "" || item.Name == "" {
				return fmt.Errorf("%w: each item requires id and name", ErrInvalidMenu)
			}
		}
	}
	return nil
}

// Normalize lowercases, strips everything that is not alphanumeric or
// whitespace, and trims. It is the sole equality key for item names.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(b.String())
}

// Lookup resolves a spoken name to a menu item via its normalized form.
func (c *Catalog) Lookup(name string) (domain.MenuItem, bool) {
	item, ok := c.lookup[Normalize(name)]
	return item, ok
}

// Items returns every item across every category in declared order.
func (c *Catalog) Items() []domain.MenuItem {
	var items []domain.MenuItem
	for _, category := range c.menu.Categories {
		items = append(items, category.Items...)
	}
	return items
}

// Prompt is the catalog rendered as context text for the extraction
// service. Ordering follows the menu's declared order.
func (c *Catalog) Prompt() string {
	return c.prompt
}

func renderPrompt(m domain.Menu) string {
	var lines []string
	for _, category := range m.Categories {
		lines = append(lines, "Category: "+category.Name)
		for _, item := range category.Items {
			line := "- " + item.Name
			if len(item.Variants) > 0 {
				line += " | sizes: " + strings.Join(item.Variants, ", ")
			}
			if len(item.Addons) > 0 {
				line += " | addons: " + strings.Join(item.Addons, ", ")
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Alternatives returns up to limit display names whose normalized form has
// sequence similarity >= cutoff to the query, most similar first.
func (c *Catalog) Alternatives(name string, limit int, cutoff float64) []string {
	query := Normalize(name)
	if query == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		key   string
		ratio float64
	}
	var candidates []scored
	for _, key := range c.names {
		ratio := similarity(query, key)
		if ratio >= cutoff {
			candidates = append(candidates, scored{key: key, ratio: ratio})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ratio > candidates[j].ratio
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	names := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		names = append(names, c.lookup[cand.key].Name)
	}
	return names
}

// similarity is the difflib sequence-match ratio over characters, the
// same measure the validator's suggestions have always used.
func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
