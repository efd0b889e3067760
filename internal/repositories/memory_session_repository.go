package repositories

import (
	"context"
	"time"

	"learnpath/internal/models/db_models"
	mem "learnpath/pkg/memcache"
)

const (
	sessionKeyPrefix  = "session:"
	agentRefKeyPrefix = "agent_ref:"
)

type memorySessionRepository struct {
	store mem.Store
	ttl   time.Duration
}

// NewMemorySessionRepository keeps sessions in process. ttl <= 0 keeps them
// for the process lifetime.
func NewMemorySessionRepository(store mem.Store, ttl time.Duration) SessionRepository {
	return &memorySessionRepository{store: store, ttl: ttl}
}

func (r *memorySessionRepository) GetSession(_ context.Context, token string) (*db_models.UserSession, error) {
	raw, ok := r.store.Get(sessionKeyPrefix + token)
	if !ok {
		return nil, nil
	}
	return decodeSession(raw)
}

func (r *memorySessionRepository) SaveSession(_ context.Context, session *db_models.UserSession) error {
	raw, err := encodeSession(session)
	if err != nil {
		return err
	}
	r.store.Set(sessionKeyPrefix+session.Token, raw, r.ttl)
	return nil
}

func (r *memorySessionRepository) DeleteSession(_ context.Context, token string) error {
	r.store.Delete(sessionKeyPrefix + token)
	return nil
}

func (r *memorySessionRepository) GetAgentRef(_ context.Context) (string, error) {
	raw, ok := r.store.Get(agentRefKeyPrefix + EvaluatorAgentKey)
	if !ok {
		return "", nil
	}
	return string(raw), nil
}

func (r *memorySessionRepository) SaveAgentRef(_ context.Context, agentID string) error {
	r.store.Set(agentRefKeyPrefix+EvaluatorAgentKey, []byte(agentID), 0)
	return nil
}
