package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"learnpath/pkg/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClient struct {
	mu        sync.Mutex
	agents    map[string]bool
	creates   atomic.Int32
	createErr error
	sendErr   error
}

func newFakeClient(ids ...string) *fakeClient {
	c := &fakeClient{agents: map[string]bool{}}
	for _, id := range ids {
		c.agents[id] = true
	}
	return c
}

func (c *fakeClient) RetrieveAgent(_ context.Context, id string) (*AgentState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.agents[id] {
		return nil, ErrAgentNotFound
	}
	return &AgentState{ID: id}, nil
}

func (c *fakeClient) CreateAgent(_ context.Context, _ CreateAgentRequest) (*AgentState, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	n := c.creates.Add(1)
	id := fmt.Sprintf("agent-%d", n)
	time.Sleep(5 * time.Millisecond)
	c.mu.Lock()
	c.agents[id] = true
	c.mu.Unlock()
	return &AgentState{ID: id}, nil
}

func (c *fakeClient) SendMessage(_ context.Context, _ string, _ MessageRequest) (*Reply, error) {
	if c.sendErr != nil {
		return nil, c.sendErr
	}
	s := "ok"
	return &Reply{Text: &s}, nil
}

type memRefs struct {
	mu    sync.Mutex
	id    string
	saves int
}

func (r *memRefs) GetAgentRef(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, nil
}

func (r *memRefs) SaveAgentRef(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = id
	r.saves++
	return nil
}

func newTestManager(client Client, refs ReferenceStore, cfg ManagerConfig) *Manager {
	m := NewManager(client, refs, CreateAgentRequest{Name: "LearningPathGenerator"}, cfg, zap.NewNop())
	m.sleep = func(context.Context, time.Duration) error { return nil }
	return m
}

func TestEnsureAgentReusesStoredReference(t *testing.T) {
	client := newFakeClient("agent-stored")
	refs := &memRefs{id: "agent-stored"}
	m := newTestManager(client, refs, ManagerConfig{})

	id, err := m.EnsureAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "agent-stored", id)
	assert.Zero(t, client.creates.Load())
}

func TestEnsureAgentFallsBackToSeed(t *testing.T) {
	client := newFakeClient("agent-seed")
	refs := &memRefs{id: "agent-stale"}
	m := newTestManager(client, refs, ManagerConfig{SeedAgentID: "agent-seed"})

	id, err := m.EnsureAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "agent-seed", id)
	assert.Equal(t, "agent-seed", refs.id)
	assert.Zero(t, client.creates.Load())
}

func TestEnsureAgentCreatesWhenStale(t *testing.T) {
	client := newFakeClient()
	refs := &memRefs{id: "agent-stale"}
	var slept time.Duration
	m := newTestManager(client, refs, ManagerConfig{SettleDelay: 2 * time.Second})
	m.sleep = func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	id, err := m.EnsureAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "agent-1", id)
	assert.Equal(t, "agent-1", refs.id)
	assert.Equal(t, 2*time.Second, slept)

	again, err := m.EnsureAgent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.EqualValues(t, 1, client.creates.Load())
	assert.Equal(t, 1, refs.saves)
}

func TestEnsureAgentConcurrentColdStartCreatesOnce(t *testing.T) {
	client := newFakeClient()
	m := newTestManager(client, &memRefs{}, ManagerConfig{})

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := m.EnsureAgent(context.Background())
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, client.creates.Load())
	for _, id := range ids {
		assert.Equal(t, "agent-1", id)
	}
}

func TestEnsureAgentCreateFailure(t *testing.T) {
	client := newFakeClient()
	client.createErr = errors.New("connection refused")
	m := newTestManager(client, nil, ManagerConfig{})

	_, err := m.EnsureAgent(context.Background())
	assert.ErrorIs(t, err, utils.ErrAgentUnavailable)
}

func TestSendMessageWrapsFailure(t *testing.T) {
	client := newFakeClient("agent-1")
	client.sendErr = errors.New("timeout")
	m := newTestManager(client, nil, ManagerConfig{})

	_, err := m.SendMessage(context.Background(), "agent-1", UserMessage("hi"))
	assert.ErrorIs(t, err, utils.ErrAgentRequest)
}
