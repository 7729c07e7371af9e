package ports

import (
	"context"
	"time"

	"github.com/seu-repo/takeaway-voice/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
}

type SessionRepository interface {
	Save(ctx context.Context, session *domain.CallSession) error
	FindByID(ctx context.Context, id string) (*domain.CallSession, error)
}

// Cache is a small key/value cache. Values are JSON strings.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
