package callflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/adapter/queue"
	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/observability/telemetry"
	"github.com/seu-repo/takeaway-voice/internal/ports"
	"github.com/seu-repo/takeaway-voice/internal/service/email"
	"github.com/seu-repo/takeaway-voice/internal/service/extraction"
	"github.com/seu-repo/takeaway-voice/internal/service/order"
)

// Webhook paths the transport posts the next utterance to.
const (
	PathProcess = "/twilio/process"
	PathConfirm = "/twilio/confirm"
)

// SubjectCallFallback carries the session JSON when a call escalates.
const SubjectCallFallback = "calls.fallback"

var affirmations = []string{"yes", "correct", "right", "yeah", "yep"}

// Config holds the knobs the state machine needs. Passing it explicitly
// keeps thresholds testable.
type Config struct {
	RestaurantName        string
	FallbackForwardNumber string
	MaxExtractionFailures int
}

// Service drives one call's conversation: greeting, gathering turns,
// confirmation, and the completed/fallback terminals. Turns for a given
// call id arrive serially from the telephony transport.
type Service struct {
	sessions  ports.SessionRepository
	orders    *order.Service
	extractor *extraction.Extractor
	mailer    *email.Service
	mq        queue.MessageQueue
	cfg       Config
	log       *zap.Logger
}

func NewService(
	sessions ports.SessionRepository,
	orders *order.Service,
	extractor *extraction.Extractor,
	mailer *email.Service,
	mq queue.MessageQueue,
	cfg Config,
	log *zap.Logger,
) *Service {
	if cfg.MaxExtractionFailures <= 0 {
		cfg.MaxExtractionFailures = 2
	}
	return &Service{
		sessions:  sessions,
		orders:    orders,
		extractor: extractor,
		mailer:    mailer,
		mq:        mq,
		cfg:       cfg,
		log:       log,
	}
}

// StartCall answers a new (or reconnecting) call with the greeting and
// starts listening.
func (s *Service) StartCall(ctx context.Context, in domain.TurnInput) (domain.CallReply, error) {
	if _, err := s.getOrCreateSession(ctx, in.CallID, in.CallerPhone); err != nil {
		return domain.CallReply{}, err
	}
	telemetry.CallsStartedTotal.Inc()

	greeting := fmt.Sprintf("Hello! Thanks for calling %s. I can take your order.", s.cfg.RestaurantName)
	return domain.CallReply{
		Say:        greeting,
		Action:     domain.ActionGather,
		GatherPath: PathProcess,
	}, nil
}

// ProcessSpeech handles one gathering turn: extract, merge, validate, and
// either ask the next clarification or read the order back for
// confirmation.
func (s *Service) ProcessSpeech(ctx context.Context, in domain.TurnInput) (domain.CallReply, error) {
	session, err := s.getOrCreateSession(ctx, in.CallID, in.CallerPhone)
	if err != nil {
		return domain.CallReply{}, err
	}
	if reply, done := s.terminalReply(session); done {
		return reply, nil
	}

	session.Attempts++

	if in.Utterance == "" {
		if err := s.sessions.Save(ctx, session); err != nil {
			return domain.CallReply{}, err
		}
		telemetry.TurnsTotal.WithLabelValues("silence").Inc()
		return domain.CallReply{
			Say:        "Sorry, I did not catch that. What would you like?",
			Action:     domain.ActionGather,
			GatherPath: PathProcess,
		}, nil
	}

	session.AppendTranscript(in.Utterance)
	if in.Confidence != "" {
		session.Draft.ConfidenceNotes = "Confidence: " + in.Confidence
	}

	result := s.extractor.Extract(ctx, in.Utterance, session.Draft)
	if result.Err != nil {
		session.ExtractionFailures++
	}

	if session.ExtractionFailures >= s.cfg.MaxExtractionFailures {
		return s.escalate(ctx, session)
	}

	session.Draft = result.Draft
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.CallReply{}, err
	}

	if len(result.MissingFields) > 0 {
		question := result.Question
		if question == "" {
			question = "Could you clarify your order?"
		}
		telemetry.TurnsTotal.WithLabelValues("clarify").Inc()
		return domain.CallReply{
			Say:        question,
			Action:     domain.ActionGather,
			GatherPath: PathProcess,
		}, nil
	}

	draft := s.orders.Build(session.Draft, s.callerPhone(session, in), session.Transcript, domain.OrderStatusReceived)
	telemetry.TurnsTotal.WithLabelValues("confirm").Inc()
	return domain.CallReply{
		Say:        fmt.Sprintf("You ordered %s. Is that correct?", s.orders.Summary(draft)),
		Action:     domain.ActionGather,
		GatherPath: PathConfirm,
	}, nil
}

// ConfirmSpeech handles the yes/no turn after the order was read back.
// Anything that is not an affirmation routes back to gathering; the
// rejected draft is deliberately retained so the caller can correct
// individual items rather than restate everything.
func (s *Service) ConfirmSpeech(ctx context.Context, in domain.TurnInput) (domain.CallReply, error) {
	session, err := s.getOrCreateSession(ctx, in.CallID, in.CallerPhone)
	if err != nil {
		return domain.CallReply{}, err
	}
	if reply, done := s.terminalReply(session); done {
		return reply, nil
	}

	response := strings.ToLower(in.Utterance)
	if response == "" {
		return domain.CallReply{
			Say:        "Please say yes or no.",
			Action:     domain.ActionGather,
			GatherPath: PathConfirm,
		}, nil
	}

	if !isAffirmative(response) {
		telemetry.TurnsTotal.WithLabelValues("rejected").Inc()
		return domain.CallReply{
			Say:        "Okay, please tell me the order again.",
			Action:     domain.ActionGather,
			GatherPath: PathProcess,
		}, nil
	}

	if session.Draft.IsEmpty() {
		// Should not happen: gathering only hands off a complete draft.
		return domain.CallReply{
			Say:    "Sorry, I could not find your order. Please call again.",
			Action: domain.ActionHangup,
		}, nil
	}

	o := s.orders.Build(session.Draft, s.callerPhone(session, in), session.Transcript, domain.OrderStatusConfirmed)
	if err := s.orders.Finalize(ctx, o); err != nil {
		return domain.CallReply{}, err
	}

	session.Status = domain.SessionStatusCompleted
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.CallReply{}, err
	}

	telemetry.TurnsTotal.WithLabelValues("completed").Inc()
	return domain.CallReply{
		Say:    "Great! Your order is placed. Thank you!",
		Action: domain.ActionHangup,
	}, nil
}

// escalate moves the session to fallback and hands the call to a human.
func (s *Service) escalate(ctx context.Context, session *domain.CallSession) (domain.CallReply, error) {
	session.Status = domain.SessionStatusFallback
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.CallReply{}, err
	}
	telemetry.FallbacksTotal.Inc()
	s.log.Warn("Escalating call to human operator",
		zap.String("call_id", session.ID),
		zap.Int("extraction_failures", session.ExtractionFailures),
	)

	s.publishFallback(session)
	if s.mailer != nil {
		if err := s.mailer.SendFallbackAlert(ctx, session); err != nil {
			s.log.Error("Failed to send fallback alert", zap.Error(err))
		}
	}

	return domain.CallReply{
		Action:     domain.ActionTransfer,
		TransferTo: s.cfg.FallbackForwardNumber,
	}, nil
}

// terminalReply repeats the terminal outcome for sessions that already
// left the gathering pathway.
func (s *Service) terminalReply(session *domain.CallSession) (domain.CallReply, bool) {
	switch session.Status {
	case domain.SessionStatusFallback:
		return domain.CallReply{
			Action:     domain.ActionTransfer,
			TransferTo: s.cfg.FallbackForwardNumber,
		}, true
	case domain.SessionStatusCompleted:
		return domain.CallReply{
			Say:    "Your order is already placed. Thank you!",
			Action: domain.ActionHangup,
		}, true
	}
	return domain.CallReply{}, false
}

func (s *Service) getOrCreateSession(ctx context.Context, callID, callerPhone string) (*domain.CallSession, error) {
	session, err := s.sessions.FindByID(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", callID, err)
	}
	if session == nil {
		session = &domain.CallSession{
			ID:          callID,
			CallerPhone: callerPhone,
			Status:      domain.SessionStatusInProgress,
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("create session %s: %w", callID, err)
		}
		return session, nil
	}

	// Caller phone is backfilled once and never overwritten.
	if callerPhone != "" && session.CallerPhone == "" {
		session.CallerPhone = callerPhone
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("update session %s: %w", callID, err)
		}
	}
	return session, nil
}

func (s *Service) callerPhone(session *domain.CallSession, in domain.TurnInput) string {
	if session.CallerPhone != "" {
		return session.CallerPhone
	}
	return in.CallerPhone
}

func (s *Service) publishFallback(session *domain.CallSession) {
	if s.mq == nil {
		return
	}
	payload, err := json.Marshal(session)
	if err != nil {
		s.log.Error("Failed to encode fallback event", zap.Error(err))
		return
	}
	if err := s.mq.Publish(SubjectCallFallback, payload); err != nil {
		s.log.Error("Failed to publish fallback event", zap.String("call_id", session.ID), zap.Error(err))
	}
}

func isAffirmative(response string) bool {
	for _, word := range affirmations {
		if strings.Contains(response, word) {
			return true
		}
	}
	return false
}
