package order

import (
	"fmt"
	"strings"

	"github.com/seu-repo/takeaway-voice/internal/domain"
)

const ticketWidth = 32

// FormatSummary renders the order as one spoken sentence for the
// confirmation prompt.
func FormatSummary(o *domain.Order) string {
	var parts []string
	for _, item := range o.Items {
		base := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
		if item.Size != "" {
			base += fmt.Sprintf(" (%s)", item.Size)
		}
		parts = append(parts, base)
		for _, extra := range append(append([]string{}, item.Modifiers...), item.Addons...) {
			parts = append(parts, "- "+extra)
		}
		if item.SpecialInstructions != "" {
			parts = append(parts, "- "+item.SpecialInstructions)
		}
	}
	return strings.Join(parts, "; ")
}

// FormatTicket renders the 32-column kitchen ticket.
func FormatTicket(o *domain.Order, restaurantName string) string {
	divider := strings.Repeat("-", ticketWidth)
	shortID, _, _ := strings.Cut(o.ID, "-")
	lines := []string{
		restaurantName,
		divider,
		"Time: " + o.Timestamp.Format("2006-01-02 15:04"),
		"Order: " + shortID,
		"Phone: " + o.CallerPhone,
		divider,
	}

	for _, item := range o.Items {
		header := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
		if item.Size != "" {
			header += fmt.Sprintf(" (%s)", item.Size)
		}
		lines = append(lines, header)
		for _, extra := range append(append([]string{}, item.Modifiers...), item.Addons...) {
			lines = append(lines, lineWrap("* "+extra, ticketWidth)...)
		}
		if item.SpecialInstructions != "" {
			lines = append(lines, lineWrap("! "+item.SpecialInstructions, ticketWidth)...)
		}
	}

	if o.Subtotal != nil {
		lines = append(lines, divider)
		lines = append(lines, fmt.Sprintf("Subtotal: $%.2f", *o.Subtotal))
		if o.Tax != nil {
			lines = append(lines, fmt.Sprintf("Tax: $%.2f", *o.Tax))
		}
		if o.Total != nil {
			lines = append(lines, fmt.Sprintf("Total: $%.2f", *o.Total))
		}
	}

	lines = append(lines, divider, "Thank you!")
	return strings.Join(lines, "\n")
}

func lineWrap(text string, width int) []string {
	var wrapped []string
	var line []string
	count := 0
	for _, word := range strings.Fields(text) {
		sep := 0
		if len(line) > 0 {
			sep = 1
		}
		if count+len(word)+sep > width {
			wrapped = append(wrapped, strings.Join(line, " "))
			line = []string{word}
			count = len(word)
		} else {
			line = append(line, word)
			count += len(word) + sep
		}
	}
	if len(line) > 0 {
		wrapped = append(wrapped, strings.Join(line, " "))
	}
	return wrapped
}
