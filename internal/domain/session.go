package domain

import (
	"strings"
	"time"
)

type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusFallback   SessionStatus = "fallback"
	SessionStatusCompleted  SessionStatus = "completed"
)

// CallSession is the per-call record, keyed by the telephony call id.
// Sessions are created lazily on the first event for a call and retained
// forever for audit.
type CallSession struct {
	ID                 string        `json:"id" gorm:"primaryKey"`
	CallerPhone        string        `json:"caller_phone"`
	Transcript         string        `json:"transcript"`
	Draft              OrderDraft    `json:"order_state" gorm:"type:jsonb"`
	Attempts           int           `json:"attempts"`
	ExtractionFailures int           `json:"extraction_failures"`
	Status             SessionStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// AppendTranscript adds one utterance, space-joined, append-only.
func (s *CallSession) AppendTranscript(text string) {
	if text == "" {
		return
	}
	s.Transcript = strings.TrimSpace(s.Transcript + " " + text)
}
