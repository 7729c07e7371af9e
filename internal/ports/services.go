package ports

import (
	"context"
)

// ExtractionClient is the external text-completion service used to turn an
// utterance into structured order data. Implementations must be
// time-bounded; callers treat any error as one extraction failure.
type ExtractionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Printer renders a ticket onto whatever the kitchen uses. Print failures
// are logged by callers and never surface to the caller on the phone.
type Printer interface {
	Print(ctx context.Context, orderID, ticket string) error
}

// EmailProvider sends a single email.
type EmailProvider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// SecretSource resolves secrets that may live outside the config file.
type SecretSource interface {
	GetOpenAIAPIKey() (string, error)
	GetDashboardToken() (string, error)
	GetDatabaseURL() (string, error)
}
