package email

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/ports"
)

// Service sends operational alerts to restaurant staff. Alerts are
// best-effort: callers log failures and move on.
type Service struct {
	provider ports.EmailProvider
	to       string
	log      *zap.Logger
}

func NewService(provider ports.EmailProvider, to string, log *zap.Logger) *Service {
	return &Service{provider: provider, to: to, log: log}
}

// SendFallbackAlert notifies staff that a call was handed off so someone
// can pick up the transferred line and, if needed, call the customer back.
func (s *Service) SendFallbackAlert(ctx context.Context, session *domain.CallSession) error {
	if s.provider == nil || s.to == "" {
		return nil
	}

	subject := fmt.Sprintf("Call %s escalated to staff", session.ID)

	var body strings.Builder
	fmt.Fprintf(&body, "A caller could not complete their order by phone.\n\n")
	fmt.Fprintf(&body, "Call ID: %s\n", session.ID)
	if session.CallerPhone != "" {
		fmt.Fprintf(&body, "Caller phone: %s\n", session.CallerPhone)
	}
	fmt.Fprintf(&body, "Turns taken: %d\n", session.Attempts)
	if session.Transcript != "" {
		fmt.Fprintf(&body, "\nTranscript so far:\n%s\n", session.Transcript)
	}

	if err := s.provider.Send(ctx, s.to, subject, body.String(), false); err != nil {
		return fmt.Errorf("send fallback alert: %w", err)
	}
	s.log.Info("Fallback alert sent", zap.String("call_id", session.ID), zap.String("to", s.to))
	return nil
}
