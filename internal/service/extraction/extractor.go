package extraction

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/observability/telemetry"
	"github.com/seu-repo/takeaway-voice/internal/ports"
	"github.com/seu-repo/takeaway-voice/internal/service/menu"
)

const systemPrompt = "You are an AI order-taking assistant. " +
	"Only use items from the provided menu. " +
	"If the caller asks for something not on the menu, " +
	"politely offer the closest alternatives from the menu. " +
	"Respond in strict JSON with keys: order, missing_fields, question. " +
	"The order object should include customer_name (optional), order_type, " +
	"and items (array). Each item has name, item_id (if known), quantity, size, " +
	"modifiers, addons, special_instructions. " +
	"If information is missing, list it in missing_fields and ask one concise follow-up question."

const failureQuestion = "Sorry, I had trouble understanding. Could you repeat your order?"

// Result is the outcome of one extraction turn. Err marks a service
// failure; the draft is then the caller's unmodified current draft.
type Result struct {
	Draft         domain.OrderDraft
	MissingFields []string
	Question      string
	RawResponse   string
	Err           error
}

// Extractor runs one extraction-service call per turn and folds the
// response into the current draft.
type Extractor struct {
	client  ports.ExtractionClient
	catalog *menu.Catalog
	timeout time.Duration
	log     *zap.Logger
}

func NewExtractor(client ports.ExtractionClient, catalog *menu.Catalog, timeout time.Duration, log *zap.Logger) *Extractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Extractor{
		client:  client,
		catalog: catalog,
		timeout: timeout,
		log:     log,
	}
}

// Extract calls the extraction service for one utterance, merges the
// parsed fragment into current, and validates the result. A service
// failure never propagates: it comes back as a Result with Err set and
// the draft untouched.
func (e *Extractor) Extract(ctx context.Context, utterance string, current domain.OrderDraft) Result {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	text, err := e.client.Complete(cctx, systemPrompt, e.userPrompt(utterance, current))
	telemetry.ExtractionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		e.log.Error("Extraction service call failed", zap.Error(err))
		telemetry.ExtractionFailuresTotal.Inc()
		return Result{
			Draft:         current,
			MissingFields: []string{"items"},
			Question:      failureQuestion,
			Err:           err,
		}
	}

	parsed := Parse(text)
	var incoming domain.OrderDraft
	if parsed.Order != nil {
		incoming = *parsed.Order
	}

	merged := Merge(current, incoming)
	validated, computedMissing, autoQuestion := Validate(merged, e.catalog)

	missing := parsed.MissingFields
	question := parsed.Question
	if len(computedMissing) > 0 {
		missing = computedMissing
		if question == "" {
			question = autoQuestion
		}
	}

	// Keep the raw response on the draft for audit.
	if text != "" {
		validated.ConfidenceNotes = strings.TrimSpace(validated.ConfidenceNotes + "\nLLM: " + text)
	}

	return Result{
		Draft:         validated,
		MissingFields: missing,
		Question:      question,
		RawResponse:   text,
	}
}

func (e *Extractor) userPrompt(utterance string, current domain.OrderDraft) string {
	state, err := json.Marshal(current)
	if err != nil {
		state = []byte("{}")
	}
	var b strings.Builder
	b.WriteString("Menu:\n")
	b.WriteString(e.catalog.Prompt())
	b.WriteString("\n\nExisting order state (JSON): ")
	b.Write(state)
	b.WriteString("\nCaller said: ")
	b.WriteString(utterance)
	b.WriteString("\nReturn JSON only.")
	return b.String()
}
