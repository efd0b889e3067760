package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		reply *Reply
		want  string
	}{
		{name: "nil reply", reply: nil, want: NoResponseFound},
		{name: "direct text wins", reply: &Reply{
			Text:     strPtr("direct"),
			Messages: []ReplyMessage{{MessageType: "assistant_message", Content: json.RawMessage(`"other"`)}},
		}, want: "direct"},
		{name: "empty direct text still wins", reply: &Reply{Text: strPtr("")}, want: ""},
		{name: "assistant message over earlier entries", reply: &Reply{Messages: []ReplyMessage{
			{MessageType: "reasoning_message", Content: json.RawMessage(`"thinking"`)},
			{MessageType: "assistant_message", Content: json.RawMessage(`"answer"`)},
		}}, want: "answer"},
		{name: "content parts", reply: &Reply{Messages: []ReplyMessage{
			{MessageType: "assistant_message", Content: json.RawMessage(`[{"type":"image"},{"type":"text","text":"from parts"}]`)},
		}}, want: "from parts"},
		{name: "falls back to any content", reply: &Reply{Messages: []ReplyMessage{
			{MessageType: "tool_call_message"},
			{MessageType: "reasoning_message", Content: json.RawMessage(`"fallback"`)},
		}}, want: "fallback"},
		{name: "nothing usable", reply: &Reply{Messages: []ReplyMessage{
			{MessageType: "tool_call_message", Content: json.RawMessage(`null`)},
			{MessageType: "usage_statistics", Content: json.RawMessage(`{"tokens":3}`)},
		}}, want: NoResponseFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractText(tt.reply))
		})
	}
}

func TestNoResponseFoundIsNotJSON(t *testing.T) {
	assert.False(t, json.Valid([]byte(NoResponseFound)))
}
