package extraction

import (
	"fmt"
	"strings"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/service/menu"
)

const maxAlternatives = 2

// BuildQuestion picks the single clarification to ask this turn. One
// ambiguity at a time: an unavailable item outranks a missing quantity,
// which outranks a missing size.
func BuildQuestion(missingFields []string, draft domain.OrderDraft, catalog *menu.Catalog) string {
	for _, field := range missingFields {
		if field == "items" {
			return "What would you like to order?"
		}
	}

	if field, ok := firstWithSuffix(missingFields, ".menu_item"); ok {
		name := itemName(draft, field)
		alternatives := catalog.Alternatives(name, maxAlternatives, 0.4)
		if len(alternatives) > 0 {
			return fmt.Sprintf("Sorry, we do not have %s. We do have %s. Which would you like?",
				name, strings.Join(alternatives, ", "))
		}
		return fmt.Sprintf("Sorry, we do not have %s. What would you like instead?", name)
	}

	if _, ok := firstWithSuffix(missingFields, ".quantity"); ok {
		return "How many would you like?"
	}

	if field, ok := firstWithSuffix(missingFields, ".size"); ok {
		return fmt.Sprintf("What size would you like for the %s?", itemName(draft, field))
	}

	return "Could you clarify your order?"
}

func firstWithSuffix(fields []string, suffix string) (string, bool) {
	for _, field := range fields {
		if strings.HasSuffix(field, suffix) {
			return field, true
		}
	}
	return "", false
}

// itemName resolves an "items[<i>].<field>" identifier back to the stated
// item name, falling back to a neutral phrase on a bad index.
func itemName(draft domain.OrderDraft, field string) string {
	var index int
	if _, err := fmt.Sscanf(field, "items[%d]", &index); err != nil {
		return "that item"
	}
	if index < 0 || index >= len(draft.Items) || draft.Items[index].Name == "" {
		return "that item"
	}
	return draft.Items[index].Name
}
