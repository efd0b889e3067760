// Package agent talks to the conversational agent that grades assessments and
// writes roadmaps, and keeps exactly one such agent provisioned.
package agent

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrAgentNotFound = errors.New("agent not found")

type MemoryBlock struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Limit int    `json:"limit,omitempty"`
}

type LLMConfig struct {
	Model             string  `json:"model"`
	ModelEndpointType string  `json:"model_endpoint_type"`
	Temperature       float64 `json:"temperature"`
	ContextWindow     int     `json:"context_window"`
	MaxTokens         int     `json:"max_tokens"`
}

type EmbeddingConfig struct {
	EmbeddingModel        string `json:"embedding_model"`
	EmbeddingEndpointType string `json:"embedding_endpoint_type"`
	EmbeddingDim          int    `json:"embedding_dim"`
}

type CreateAgentRequest struct {
	Name            string          `json:"name"`
	System          string          `json:"system"`
	AgentType       string          `json:"agent_type"`
	MemoryBlocks    []MemoryBlock   `json:"memory_blocks"`
	LLMConfig       LLMConfig       `json:"llm_config"`
	EmbeddingConfig EmbeddingConfig `json:"embedding_config"`
	Description     string          `json:"description"`
}

type AgentState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MessageCreate struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MessageRequest struct {
	Messages            []MessageCreate `json:"messages"`
	UseAssistantMessage bool            `json:"use_assistant_message,omitempty"`
}

// UserMessage builds a single-message request.
func UserMessage(content string) MessageRequest {
	return MessageRequest{Messages: []MessageCreate{{Role: "user", Content: content}}}
}

// Reply is what an agent sends back. Hosted agents fill Text; agent servers
// return a sequence of typed messages (reasoning, tool calls, assistant text).
type Reply struct {
	Text     *string        `json:"text,omitempty"`
	Messages []ReplyMessage `json:"messages,omitempty"`
}

type ReplyMessage struct {
	ID          string          `json:"id,omitempty"`
	MessageType string          `json:"message_type,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
}

type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Client is the transport to an agent host.
type Client interface {
	RetrieveAgent(ctx context.Context, agentID string) (*AgentState, error)
	CreateAgent(ctx context.Context, req CreateAgentRequest) (*AgentState, error)
	SendMessage(ctx context.Context, agentID string, req MessageRequest) (*Reply, error)
}

// Gateway is what the workflow needs: a live agent id and a way to message it.
type Gateway interface {
	EnsureAgent(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, agentID string, req MessageRequest) (*Reply, error)
}
