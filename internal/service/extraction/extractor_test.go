package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/mocks"
)

func TestExtractor_SuccessfulTurn(t *testing.T) {
	catalog := testCatalog(t)
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return `{"order": {"items": [{"name": "Margherita Pizza", "quantity": 2, "size": "large"}]}, "missing_fields": [], "question": ""}`, nil
		},
	}
	extractor := NewExtractor(client, catalog, 0, zap.NewNop())

	result := extractor.Extract(context.Background(), "two large margheritas", domain.OrderDraft{})

	if result.Err != nil {
		t.Fatalf("Unexpected error: %v", result.Err)
	}
	if len(result.MissingFields) != 0 {
		t.Errorf("Expected complete draft, got missing %v", result.MissingFields)
	}
	if len(result.Draft.Items) != 1 || result.Draft.Items[0].ItemID != "margherita" {
		t.Errorf("Unexpected draft: %+v", result.Draft)
	}
	if !strings.Contains(result.Draft.ConfidenceNotes, "LLM:") {
		t.Errorf("Expected raw response recorded in notes, got %q", result.Draft.ConfidenceNotes)
	}
}

func TestExtractor_ValidationOverridesServiceFields(t *testing.T) {
	catalog := testCatalog(t)
	// The service claims the order is complete but the size is missing.
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return `{"order": {"items": [{"name": "Margherita Pizza", "quantity": 1}]}, "missing_fields": [], "question": ""}`, nil
		},
	}
	extractor := NewExtractor(client, catalog, 0, zap.NewNop())

	result := extractor.Extract(context.Background(), "a margherita", domain.OrderDraft{})

	if len(result.MissingFields) != 1 || result.MissingFields[0] != "items[0].size" {
		t.Errorf("Expected validator missing fields to win, got %v", result.MissingFields)
	}
	if result.Question != "What size would you like for the Margherita Pizza?" {
		t.Errorf("Unexpected question: %q", result.Question)
	}
}

func TestExtractor_ServiceQuestionPreserved(t *testing.T) {
	catalog := testCatalog(t)
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return `{"order": {"items": [{"name": "Margherita Pizza", "quantity": 1}]}, "missing_fields": [], "question": "Small or large?"}`, nil
		},
	}
	extractor := NewExtractor(client, catalog, 0, zap.NewNop())

	result := extractor.Extract(context.Background(), "a margherita", domain.OrderDraft{})

	if result.Question != "Small or large?" {
		t.Errorf("Expected the service's phrasing kept, got %q", result.Question)
	}
}

func TestExtractor_ServiceFailureLeavesDraftUntouched(t *testing.T) {
	catalog := testCatalog(t)
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return "", errors.New("upstream timeout")
		},
	}
	extractor := NewExtractor(client, catalog, 0, zap.NewNop())

	current := domain.OrderDraft{Items: []domain.DraftItem{{Name: "Veggie Burger", Quantity: 1}}}
	result := extractor.Extract(context.Background(), "and a pizza", current)

	if result.Err == nil {
		t.Fatal("Expected error to be reported")
	}
	if len(result.Draft.Items) != 1 || result.Draft.Items[0].Name != "Veggie Burger" {
		t.Errorf("Failure mutated the draft: %+v", result.Draft)
	}
	if result.Question != "Sorry, I had trouble understanding. Could you repeat your order?" {
		t.Errorf("Unexpected question: %q", result.Question)
	}
}

func TestExtractor_GarbledResponseKeepsState(t *testing.T) {
	catalog := testCatalog(t)
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return "I could not figure that out at all", nil
		},
	}
	extractor := NewExtractor(client, catalog, 0, zap.NewNop())

	current := domain.OrderDraft{Items: []domain.DraftItem{{Name: "Veggie Burger", Quantity: 1}}}
	result := extractor.Extract(context.Background(), "mumble", current)

	// Garbled output is not a service failure; validation still runs on
	// the unchanged state.
	if result.Err != nil {
		t.Fatalf("Unexpected error: %v", result.Err)
	}
	if len(result.Draft.Items) != 1 || result.Draft.Items[0].Name != "Veggie Burger" {
		t.Errorf("Garbled response altered the draft: %+v", result.Draft)
	}
	if len(result.MissingFields) != 0 {
		t.Errorf("Expected still-complete draft, got %v", result.MissingFields)
	}
}

func TestExtractor_PromptIncludesMenuAndState(t *testing.T) {
	catalog := testCatalog(t)
	var gotPrompt string
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			gotPrompt = userPrompt
			return "{}", nil
		},
	}
	extractor := NewExtractor(client, catalog, 0, zap.NewNop())

	current := domain.OrderDraft{CustomerName: "Ana"}
	extractor.Extract(context.Background(), "hello", current)

	if !strings.Contains(gotPrompt, "Margherita Pizza") {
		t.Error("Expected menu in prompt")
	}
	if !strings.Contains(gotPrompt, `"customer_name":"Ana"`) {
		t.Errorf("Expected current state in prompt, got %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "Caller said: hello") {
		t.Error("Expected utterance in prompt")
	}
}
