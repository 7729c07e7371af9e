package extraction

import (
	"fmt"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/service/menu"
)

// Validate checks the draft against the catalog and reports what is still
// missing. Item ids are backfilled from the catalog as a side effect. The
// returned question is the fallback clarification when the extraction
// service did not phrase one itself.
func Validate(draft domain.OrderDraft, catalog *menu.Catalog) (domain.OrderDraft, []string, string) {
	if len(draft.Items) == 0 {
		return draft, []string{"items"}, "What would you like to order?"
	}

	var missing []string
	for i := range draft.Items {
		missing = append(missing, validateItem(&draft.Items[i], i, catalog)...)
	}

	var question string
	if len(missing) > 0 {
		question = BuildQuestion(missing, draft, catalog)
	}
	return draft, missing, question
}

func validateItem(item *domain.DraftItem, index int, catalog *menu.Catalog) []string {
	if item.Name == "" {
		return []string{fmt.Sprintf("items[%d].name", index)}
	}

	menuItem, ok := catalog.Lookup(item.Name)
	if !ok {
		return []string{fmt.Sprintf("items[%d].menu_item", index)}
	}

	if item.ItemID == "" {
		item.ItemID = menuItem.ID
	}

	var missing []string
	if item.Quantity <= 0 {
		missing = append(missing, fmt.Sprintf("items[%d].quantity", index))
	}

	if len(menuItem.Variants) > 0 {
		// An invalid size counts the same as a missing one.
		if item.Size == "" || !menuItem.HasVariant(item.Size) {
			missing = append(missing, fmt.Sprintf("items[%d].size", index))
		}
	}

	return missing
}
