package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/ports"
)

const sessionTTL = 2 * time.Hour

// SessionCache wraps a session repository with a read-through cache keyed
// by call id. Call turns hit the same session several times in quick
// succession, so a short TTL covers the whole call.
type SessionCache struct {
	repo  ports.SessionRepository
	cache ports.Cache
	log   *zap.Logger
}

func NewSessionCache(repo ports.SessionRepository, cache ports.Cache, log *zap.Logger) ports.SessionRepository {
	return &SessionCache{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func sessionKey(id string) string {
	return "call:" + id
}

func (c *SessionCache) Save(ctx context.Context, s *domain.CallSession) error {
	if err := c.repo.Save(ctx, s); err != nil {
		return err
	}

	payload, err := json.Marshal(s)
	if err != nil {
		c.log.Warn("Failed to encode session for cache", zap.String("call_id", s.ID), zap.Error(err))
		return nil
	}
	if err := c.cache.Set(ctx, sessionKey(s.ID), payload, sessionTTL); err != nil {
		c.log.Warn("Failed to cache session", zap.String("call_id", s.ID), zap.Error(err))
	}
	return nil
}

func (c *SessionCache) FindByID(ctx context.Context, id string) (*domain.CallSession, error) {
	if raw, err := c.cache.Get(ctx, sessionKey(id)); err == nil && raw != "" {
		var s domain.CallSession
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return &s, nil
		}
		// Corrupt entry, fall through to the database.
		_ = c.cache.Delete(ctx, sessionKey(id))
	}

	s, err := c.repo.FindByID(ctx, id)
	if err != nil || s == nil {
		return s, err
	}

	if payload, err := json.Marshal(s); err == nil {
		if err := c.cache.Set(ctx, sessionKey(id), payload, sessionTTL); err != nil {
			c.log.Warn("Failed to cache session", zap.String("call_id", id), zap.Error(err))
		}
	}
	return s, nil
}
