package callflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/mocks"
	"github.com/seu-repo/takeaway-voice/internal/service/email"
	"github.com/seu-repo/takeaway-voice/internal/service/extraction"
	"github.com/seu-repo/takeaway-voice/internal/service/menu"
	"github.com/seu-repo/takeaway-voice/internal/service/order"
)

const completeResponse = `{"order": {"items": [{"name": "Margherita Pizza", "quantity": 2, "size": "large"}]}, "missing_fields": [], "question": ""}`

type fixture struct {
	flow     *Service
	sessions *mocks.InMemorySessionRepository
	orders   *mocks.MockOrderRepository
	printer  *mocks.MockPrinter
	mq       *mocks.MockQueue
	alerts   *mocks.MockEmailProvider
}

func newFixture(t *testing.T, client *mocks.MockExtractionClient) *fixture {
	t.Helper()

	logger := zap.NewNop()
	price := 9.0
	catalog, err := menu.New(domain.Menu{Categories: []domain.MenuCategory{
		{Name: "Pizzas", Items: []domain.MenuItem{
			{ID: "margherita", Name: "Margherita Pizza", Variants: []string{"small", "large"}, Price: &price},
		}},
	}})
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}

	f := &fixture{
		sessions: mocks.NewInMemorySessionRepository(),
		orders:   &mocks.MockOrderRepository{},
		printer:  &mocks.MockPrinter{},
		mq:       &mocks.MockQueue{},
		alerts:   &mocks.MockEmailProvider{},
	}

	orderService := order.NewService(f.orders, catalog, f.printer, f.mq, "Testaurant", 0.0, logger)
	extractor := extraction.NewExtractor(client, catalog, 0, logger)
	alertService := email.NewService(f.alerts, "staff@testaurant.test", logger)

	f.flow = NewService(f.sessions, orderService, extractor, alertService, f.mq, Config{
		RestaurantName:        "Testaurant",
		FallbackForwardNumber: "+15550000000",
		MaxExtractionFailures: 2,
	}, logger)
	return f
}

func TestStartCall_GreetsAndCreatesSession(t *testing.T) {
	f := newFixture(t, &mocks.MockExtractionClient{})

	reply, err := f.flow.StartCall(context.Background(), domain.TurnInput{CallID: "CA1", CallerPhone: "+15551112222"})
	if err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}

	if reply.Say != "Hello! Thanks for calling Testaurant. I can take your order." {
		t.Errorf("Unexpected greeting: %q", reply.Say)
	}
	if reply.Action != domain.ActionGather || reply.GatherPath != PathProcess {
		t.Errorf("Expected gather to %s, got %+v", PathProcess, reply)
	}

	session := f.sessions.Sessions["CA1"]
	if session == nil {
		t.Fatal("Expected session created")
	}
	if session.CallerPhone != "+15551112222" || session.Status != domain.SessionStatusInProgress {
		t.Errorf("Unexpected session: %+v", session)
	}
}

func TestStartCall_PhoneBackfilledOnce(t *testing.T) {
	f := newFixture(t, &mocks.MockExtractionClient{})
	ctx := context.Background()

	f.flow.StartCall(ctx, domain.TurnInput{CallID: "CA1"})
	f.flow.StartCall(ctx, domain.TurnInput{CallID: "CA1", CallerPhone: "+15551112222"})
	f.flow.StartCall(ctx, domain.TurnInput{CallID: "CA1", CallerPhone: "+15559999999"})

	if got := f.sessions.Sessions["CA1"].CallerPhone; got != "+15551112222" {
		t.Errorf("Expected first phone retained, got %s", got)
	}
}

func TestProcessSpeech_SilenceReprompts(t *testing.T) {
	client := &mocks.MockExtractionClient{}
	f := newFixture(t, client)

	reply, err := f.flow.ProcessSpeech(context.Background(), domain.TurnInput{CallID: "CA1"})
	if err != nil {
		t.Fatalf("ProcessSpeech failed: %v", err)
	}

	if reply.Say != "Sorry, I did not catch that. What would you like?" {
		t.Errorf("Unexpected re-prompt: %q", reply.Say)
	}
	if client.Calls != 0 {
		t.Errorf("Silence must not reach the extraction service, got %d calls", client.Calls)
	}
	if f.sessions.Sessions["CA1"].ExtractionFailures != 0 {
		t.Error("Silence must not count as an extraction failure")
	}
}

func TestProcessSpeech_IncompleteAsksQuestion(t *testing.T) {
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return `{"order": {"items": [{"name": "Margherita Pizza", "quantity": 2}]}, "missing_fields": [], "question": ""}`, nil
		},
	}
	f := newFixture(t, client)

	reply, err := f.flow.ProcessSpeech(context.Background(), domain.TurnInput{CallID: "CA1", Utterance: "two margheritas"})
	if err != nil {
		t.Fatalf("ProcessSpeech failed: %v", err)
	}

	if reply.Say != "What size would you like for the Margherita Pizza?" {
		t.Errorf("Unexpected question: %q", reply.Say)
	}
	if reply.GatherPath != PathProcess {
		t.Errorf("Clarification must gather back to %s, got %s", PathProcess, reply.GatherPath)
	}

	session := f.sessions.Sessions["CA1"]
	if session.Transcript != "two margheritas" {
		t.Errorf("Transcript not recorded: %q", session.Transcript)
	}
	if session.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", session.Attempts)
	}
	if len(session.Draft.Items) != 1 {
		t.Errorf("Draft not persisted: %+v", session.Draft)
	}
}

func TestProcessSpeech_CompleteAsksConfirmation(t *testing.T) {
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return completeResponse, nil
		},
	}
	f := newFixture(t, client)

	reply, err := f.flow.ProcessSpeech(context.Background(), domain.TurnInput{CallID: "CA1", Utterance: "two large margheritas"})
	if err != nil {
		t.Fatalf("ProcessSpeech failed: %v", err)
	}

	if !strings.HasPrefix(reply.Say, "You ordered 2x Margherita Pizza (large)") {
		t.Errorf("Unexpected readback: %q", reply.Say)
	}
	if !strings.HasSuffix(reply.Say, "Is that correct?") {
		t.Errorf("Expected confirmation question, got %q", reply.Say)
	}
	if reply.GatherPath != PathConfirm {
		t.Errorf("Expected gather to %s, got %s", PathConfirm, reply.GatherPath)
	}

	// Nothing is persisted as an order until the caller confirms.
	if len(f.printer.Printed) != 0 {
		t.Error("Order must not print before confirmation")
	}
}

func TestProcessSpeech_FailureThresholdEscalates(t *testing.T) {
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return "", errors.New("upstream down")
		},
	}
	f := newFixture(t, client)
	ctx := context.Background()

	// First failure: apologize and keep gathering.
	reply, err := f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "a pizza"})
	if err != nil {
		t.Fatalf("ProcessSpeech failed: %v", err)
	}
	if reply.Action != domain.ActionGather {
		t.Fatalf("Expected gather after first failure, got %+v", reply)
	}
	if reply.Say != "Sorry, I had trouble understanding. Could you repeat your order?" {
		t.Errorf("Unexpected apology: %q", reply.Say)
	}

	// Second failure reaches the threshold on this same turn: transfer.
	reply, err = f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "a pizza please"})
	if err != nil {
		t.Fatalf("ProcessSpeech failed: %v", err)
	}
	if reply.Action != domain.ActionTransfer || reply.TransferTo != "+15550000000" {
		t.Errorf("Expected transfer to staff, got %+v", reply)
	}

	session := f.sessions.Sessions["CA1"]
	if session.Status != domain.SessionStatusFallback {
		t.Errorf("Expected fallback status, got %s", session.Status)
	}
	if len(f.mq.Published[SubjectCallFallback]) != 1 {
		t.Error("Expected fallback event published")
	}
	if len(f.alerts.Sent) != 1 {
		t.Error("Expected staff alert email")
	}
}

func TestProcessSpeech_SuccessResetNotApplied(t *testing.T) {
	// Failures accumulate over the whole call; a good turn in between
	// does not reset the counter.
	calls := 0
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			calls++
			if calls == 2 {
				return completeResponse, nil
			}
			return "", errors.New("upstream down")
		},
	}
	f := newFixture(t, client)
	ctx := context.Background()

	f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "a pizza"})
	f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "two large margheritas"})
	reply, err := f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "make it three"})
	if err != nil {
		t.Fatalf("ProcessSpeech failed: %v", err)
	}

	if reply.Action != domain.ActionTransfer {
		t.Errorf("Expected second lifetime failure to escalate, got %+v", reply)
	}
}

func TestConfirmSpeech_AffirmationPlacesOrder(t *testing.T) {
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return completeResponse, nil
		},
	}
	f := newFixture(t, client)
	ctx := context.Background()

	var saved *domain.Order
	f.orders.SaveFunc = func(ctx context.Context, o *domain.Order) error {
		saved = o
		return nil
	}

	f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CA1", CallerPhone: "+15551112222", Utterance: "two large margheritas"})

	reply, err := f.flow.ConfirmSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "Yeah that's right"})
	if err != nil {
		t.Fatalf("ConfirmSpeech failed: %v", err)
	}

	if reply.Say != "Great! Your order is placed. Thank you!" {
		t.Errorf("Unexpected completion message: %q", reply.Say)
	}
	if reply.Action != domain.ActionHangup {
		t.Errorf("Expected hangup, got %+v", reply)
	}

	if saved == nil {
		t.Fatal("Expected order persisted")
	}
	if saved.Status != domain.OrderStatusPrinted {
		t.Errorf("Expected printed order, got %s", saved.Status)
	}
	if saved.CallerPhone != "+15551112222" {
		t.Errorf("Expected caller phone on order, got %s", saved.CallerPhone)
	}
	if f.sessions.Sessions["CA1"].Status != domain.SessionStatusCompleted {
		t.Errorf("Expected completed session, got %s", f.sessions.Sessions["CA1"].Status)
	}
}

func TestConfirmSpeech_RejectionRetainsDraft(t *testing.T) {
	client := &mocks.MockExtractionClient{
		CompleteFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return completeResponse, nil
		},
	}
	f := newFixture(t, client)
	ctx := context.Background()

	f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "two large margheritas"})

	reply, err := f.flow.ConfirmSpeech(ctx, domain.TurnInput{CallID: "CA1", Utterance: "no, that's wrong"})
	if err != nil {
		t.Fatalf("ConfirmSpeech failed: %v", err)
	}

	if reply.Say != "Okay, please tell me the order again." {
		t.Errorf("Unexpected rejection reply: %q", reply.Say)
	}
	if reply.GatherPath != PathProcess {
		t.Errorf("Rejection must route back to gathering, got %s", reply.GatherPath)
	}

	// The draft survives so the caller can correct a single item.
	if len(f.sessions.Sessions["CA1"].Draft.Items) != 1 {
		t.Errorf("Expected draft retained after rejection: %+v", f.sessions.Sessions["CA1"].Draft)
	}
}

func TestConfirmSpeech_SilenceAsksYesOrNo(t *testing.T) {
	f := newFixture(t, &mocks.MockExtractionClient{})

	reply, err := f.flow.ConfirmSpeech(context.Background(), domain.TurnInput{CallID: "CA1"})
	if err != nil {
		t.Fatalf("ConfirmSpeech failed: %v", err)
	}

	if reply.Say != "Please say yes or no." {
		t.Errorf("Unexpected reply: %q", reply.Say)
	}
	if reply.GatherPath != PathConfirm {
		t.Errorf("Expected gather back to %s, got %s", PathConfirm, reply.GatherPath)
	}
}

func TestConfirmSpeech_EmptyDraftApologizes(t *testing.T) {
	f := newFixture(t, &mocks.MockExtractionClient{})

	reply, err := f.flow.ConfirmSpeech(context.Background(), domain.TurnInput{CallID: "CA1", Utterance: "yes"})
	if err != nil {
		t.Fatalf("ConfirmSpeech failed: %v", err)
	}

	if reply.Say != "Sorry, I could not find your order. Please call again." {
		t.Errorf("Unexpected reply: %q", reply.Say)
	}
	if reply.Action != domain.ActionHangup {
		t.Errorf("Expected hangup, got %+v", reply)
	}
}

func TestTerminalSessions_StayTerminal(t *testing.T) {
	f := newFixture(t, &mocks.MockExtractionClient{})
	ctx := context.Background()

	f.sessions.Save(ctx, &domain.CallSession{ID: "CAfall", Status: domain.SessionStatusFallback})
	reply, err := f.flow.ProcessSpeech(ctx, domain.TurnInput{CallID: "CAfall", Utterance: "hello?"})
	if err != nil {
		t.Fatalf("ProcessSpeech failed: %v", err)
	}
	if reply.Action != domain.ActionTransfer {
		t.Errorf("Fallback session must keep transferring, got %+v", reply)
	}

	f.sessions.Save(ctx, &domain.CallSession{ID: "CAdone", Status: domain.SessionStatusCompleted})
	reply, err = f.flow.ConfirmSpeech(ctx, domain.TurnInput{CallID: "CAdone", Utterance: "yes"})
	if err != nil {
		t.Fatalf("ConfirmSpeech failed: %v", err)
	}
	if reply.Action != domain.ActionHangup {
		t.Errorf("Completed session must hang up, got %+v", reply)
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, yes := range []string{"yes", "yes please", "that's correct", "yeah", "yep, all good", "right"} {
		if !isAffirmative(yes) {
			t.Errorf("Expected %q to be affirmative", yes)
		}
	}
	for _, no := range []string{"no", "wrong", "cancel that", "not really"} {
		if isAffirmative(no) {
			t.Errorf("Expected %q to be negative", no)
		}
	}
}
