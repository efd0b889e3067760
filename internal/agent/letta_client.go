package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the agent server.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agent server returned %d: %s", e.Status, e.Body)
}

// LettaClient speaks the agent server REST API.
type LettaClient struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewLettaClient(baseURL, apiKey string, timeout time.Duration) *LettaClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LettaClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

func (c *LettaClient) RetrieveAgent(ctx context.Context, agentID string) (*AgentState, error) {
	if agentID == "" {
		return nil, ErrAgentNotFound
	}
	var state AgentState
	if err := c.do(ctx, http.MethodGet, "/v1/agents/"+url.PathEscape(agentID), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *LettaClient) CreateAgent(ctx context.Context, req CreateAgentRequest) (*AgentState, error) {
	var state AgentState
	if err := c.do(ctx, http.MethodPost, "/v1/agents/", req, &state); err != nil {
		return nil, err
	}
	if state.ID == "" {
		return nil, fmt.Errorf("agent server created an agent without an id")
	}
	return &state, nil
}

func (c *LettaClient) SendMessage(ctx context.Context, agentID string, req MessageRequest) (*Reply, error) {
	var reply Reply
	path := "/v1/agents/" + url.PathEscape(agentID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *LettaClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("agent server http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet {
		return ErrAgentNotFound
	}
	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("agent server decode: %w", err)
	}
	return nil
}
