package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryAppendPrefix marks messages that only update the agent's user history.
const MemoryAppendPrefix = "[SYSTEM MEMORY APPEND]"

const (
	userHistoryLabel   = "user_history"
	defaultTurnHistory = 20
)

type Turn struct {
	Role    string
	Content string
}

// Completer runs one chat completion against a model provider.
type Completer interface {
	Complete(ctx context.Context, system string, history []Turn, message string) (string, error)
}

type hostedAgent struct {
	mu         sync.Mutex
	state      AgentState
	system     string
	blocks     []MemoryBlock
	transcript []Turn
}

// HostedClient keeps agents in process and answers through a Completer.
// Memory blocks are rendered into the system prompt on every call.
type HostedClient struct {
	completer   Completer
	turnHistory int

	mu     sync.RWMutex
	agents map[string]*hostedAgent
}

func NewHostedClient(completer Completer) *HostedClient {
	return &HostedClient{
		completer:   completer,
		turnHistory: defaultTurnHistory,
		agents:      make(map[string]*hostedAgent),
	}
}

func (c *HostedClient) RetrieveAgent(_ context.Context, agentID string) (*AgentState, error) {
	a, ok := c.lookup(agentID)
	if !ok {
		return nil, ErrAgentNotFound
	}
	state := a.state
	return &state, nil
}

func (c *HostedClient) CreateAgent(_ context.Context, req CreateAgentRequest) (*AgentState, error) {
	a := &hostedAgent{
		state:  AgentState{ID: "agent-" + uuid.NewString(), Name: req.Name},
		system: req.System,
		blocks: append([]MemoryBlock(nil), req.MemoryBlocks...),
	}

	c.mu.Lock()
	c.agents[a.state.ID] = a
	c.mu.Unlock()

	state := a.state
	return &state, nil
}

func (c *HostedClient) SendMessage(ctx context.Context, agentID string, req MessageRequest) (*Reply, error) {
	a, ok := c.lookup(agentID)
	if !ok {
		return nil, ErrAgentNotFound
	}

	var last string
	for _, msg := range req.Messages {
		if strings.HasPrefix(msg.Content, MemoryAppendPrefix) {
			a.appendMemory(userHistoryLabel, strings.TrimSpace(strings.TrimPrefix(msg.Content, MemoryAppendPrefix)))
			last = "Memory updated."
			continue
		}

		system, history := a.snapshot(c.turnHistory)
		out, err := c.completer.Complete(ctx, system, history, msg.Content)
		if err != nil {
			return nil, fmt.Errorf("completion: %w", err)
		}
		a.record(c.turnHistory, Turn{Role: "user", Content: msg.Content}, Turn{Role: "assistant", Content: out})
		last = out
	}

	return &Reply{Text: &last}, nil
}

func (c *HostedClient) lookup(agentID string) (*hostedAgent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.agents[agentID]
	return a, ok
}

func (a *hostedAgent) snapshot(limit int) (string, []Turn) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	b.WriteString(a.system)
	for _, blk := range a.blocks {
		fmt.Fprintf(&b, "\n\n<%s>\n%s\n</%s>", blk.Label, blk.Value, blk.Label)
	}

	start := 0
	if limit > 0 && len(a.transcript) > limit {
		start = len(a.transcript) - limit
	}
	history := append([]Turn(nil), a.transcript[start:]...)
	return b.String(), history
}

// record appends turns and keeps only the last limit of them. The kept
// turns are copied so the dropped ones can be collected.
func (a *hostedAgent) record(limit int, turns ...Turn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcript = append(a.transcript, turns...)
	if limit > 0 && len(a.transcript) > limit {
		a.transcript = append([]Turn(nil), a.transcript[len(a.transcript)-limit:]...)
	}
}

func (a *hostedAgent) appendMemory(label, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.blocks {
		if a.blocks[i].Label == label {
			a.blocks[i].Value += "\n" + value
			return
		}
	}
	a.blocks = append(a.blocks, MemoryBlock{Label: label, Value: value})
}
