package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestLettaRetrieveAgent(t *testing.T) {
	client := NewLettaClient("http://letta/", "secret", 0)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/v1/agents/agent-1", req.URL.Path)
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
		return jsonResponse(200, `{"id":"agent-1","name":"LearningPathGenerator"}`)
	})}

	state, err := client.RetrieveAgent(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-1", state.ID)
}

func TestLettaRetrieveAgentNotFound(t *testing.T) {
	client := NewLettaClient("http://letta", "", 0)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
		assert.Empty(t, req.Header.Get("Authorization"))
		return jsonResponse(404, `{"detail":"not found"}`)
	})}

	_, err := client.RetrieveAgent(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestLettaCreateAgent(t *testing.T) {
	client := NewLettaClient("http://letta", "", 0)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/v1/agents/", req.URL.Path)
		var payload CreateAgentRequest
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		assert.Equal(t, "LearningPathGenerator", payload.Name)
		assert.Len(t, payload.MemoryBlocks, 1)
		return jsonResponse(201, `{"id":"agent-new"}`)
	})}

	state, err := client.CreateAgent(context.Background(), CreateAgentRequest{
		Name:         "LearningPathGenerator",
		MemoryBlocks: []MemoryBlock{{Label: "core_instructions", Value: "x"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "agent-new", state.ID)
}

func TestLettaSendMessage(t *testing.T) {
	client := NewLettaClient("http://letta", "", 0)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
		assert.Equal(t, "/v1/agents/agent-1/messages", req.URL.Path)
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		msgs := payload["messages"].([]any)
		assert.Equal(t, "hello", msgs[0].(map[string]any)["content"])
		return jsonResponse(200, `{"messages":[
			{"message_type":"reasoning_message","reasoning":"..."},
			{"message_type":"assistant_message","content":"hi there"}
		]}`)
	})}

	reply, err := client.SendMessage(context.Background(), "agent-1", UserMessage("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hi there", ExtractText(reply))
}

func TestLettaServerError(t *testing.T) {
	client := NewLettaClient("http://letta", "", 0)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
		return jsonResponse(500, "boom")
	})}

	_, err := client.SendMessage(context.Background(), "agent-1", UserMessage("hello"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Body)
}
