package extraction

import (
	"github.com/seu-repo/takeaway-voice/internal/domain"
)

// Merge folds newly extracted fields into the existing draft. An incoming
// field overwrites only when it carries a value: empty never erases known
// state. Items are replaced wholesale whenever incoming has any, so each
// turn's extraction must restate the full order rather than a delta.
func Merge(existing, incoming domain.OrderDraft) domain.OrderDraft {
	merged := existing

	if incoming.CustomerName != "" {
		merged.CustomerName = incoming.CustomerName
	}
	if incoming.OrderType != "" {
		merged.OrderType = incoming.OrderType
	}
	if len(incoming.Items) > 0 {
		merged.Items = incoming.Items
	}
	if incoming.Subtotal != nil {
		merged.Subtotal = incoming.Subtotal
	}
	if incoming.Tax != nil {
		merged.Tax = incoming.Tax
	}
	if incoming.Total != nil {
		merged.Total = incoming.Total
	}
	if incoming.SpecialInstructions != "" {
		merged.SpecialInstructions = incoming.SpecialInstructions
	}
	if incoming.ConfidenceNotes != "" {
		merged.ConfidenceNotes = incoming.ConfidenceNotes
	}

	return merged
}
