package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"learnpath/pkg/utils"
)

// ReferenceStore persists which agent the service talks to.
type ReferenceStore interface {
	GetAgentRef(ctx context.Context) (string, error)
	SaveAgentRef(ctx context.Context, agentID string) error
}

type ManagerConfig struct {
	// SeedAgentID is tried when nothing is stored yet.
	SeedAgentID string
	// SettleDelay is waited after creating an agent before it is used.
	SettleDelay time.Duration
}

// Manager keeps exactly one agent provisioned. Concurrent callers that find
// no usable agent share a single create.
type Manager struct {
	client Client
	refs   ReferenceStore
	create CreateAgentRequest
	cfg    ManagerConfig
	logger *zap.Logger

	group singleflight.Group
	sleep func(ctx context.Context, d time.Duration) error

	mu      sync.RWMutex
	current string
}

func NewManager(client Client, refs ReferenceStore, create CreateAgentRequest, cfg ManagerConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		client: client,
		refs:   refs,
		create: create,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepCtx,
	}
}

// EnsureAgent returns the id of a live agent, creating one when the stored
// reference is missing or stale.
func (m *Manager) EnsureAgent(ctx context.Context) (string, error) {
	v, err, shared := m.group.Do("ensure", func() (interface{}, error) {
		return m.ensure(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	if shared {
		m.logger.Debug("agent lookup shared", zap.String("agent_id", v.(string)))
	}
	return v.(string), nil
}

func (m *Manager) SendMessage(ctx context.Context, agentID string, req MessageRequest) (*Reply, error) {
	reply, err := m.client.SendMessage(ctx, agentID, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrAgentRequest, err)
	}
	return reply, nil
}

// Current reports the last agent id this manager resolved.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) ensure(ctx context.Context) (string, error) {
	for _, id := range m.candidates(ctx) {
		_, err := m.client.RetrieveAgent(ctx, id)
		if err == nil {
			m.remember(ctx, id, false)
			return id, nil
		}
		if errors.Is(err, ErrAgentNotFound) {
			m.logger.Info("stored agent not found", zap.String("agent_id", id))
		} else {
			m.logger.Warn("agent retrieve failed", zap.String("agent_id", id), zap.Error(err))
		}
	}

	m.logger.Info("creating agent", zap.String("name", m.create.Name))
	state, err := m.client.CreateAgent(ctx, m.create)
	if err != nil {
		m.logger.Error("agent create failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", utils.ErrAgentUnavailable, err)
	}

	if m.cfg.SettleDelay > 0 {
		if err := m.sleep(ctx, m.cfg.SettleDelay); err != nil {
			return "", fmt.Errorf("%w: %v", utils.ErrAgentUnavailable, err)
		}
	}

	m.remember(ctx, state.ID, true)
	m.logger.Info("agent created", zap.String("agent_id", state.ID))
	return state.ID, nil
}

// candidates lists ids to try in order: stored reference, last resolved, seed.
func (m *Manager) candidates(ctx context.Context) []string {
	var ids []string
	seen := map[string]bool{"": true}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if m.refs != nil {
		stored, err := m.refs.GetAgentRef(ctx)
		if err != nil {
			m.logger.Warn("agent reference lookup failed", zap.Error(err))
		}
		add(stored)
	}
	add(m.Current())
	add(m.cfg.SeedAgentID)
	return ids
}

func (m *Manager) remember(ctx context.Context, id string, persist bool) {
	m.mu.Lock()
	changed := m.current != id
	m.current = id
	m.mu.Unlock()

	if m.refs == nil || (!persist && !changed) {
		return
	}
	if err := m.refs.SaveAgentRef(ctx, id); err != nil {
		m.logger.Warn("agent reference save failed", zap.String("agent_id", id), zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
