package agent

import (
	"encoding/json"
)

// NoResponseFound is returned by ExtractText when a reply carries no text.
// It never decodes as JSON.
const NoResponseFound = "No response found"

const assistantMessageType = "assistant_message"

// ExtractText locates the assistant-authored text in a reply: the direct text
// field first, then the assistant message, then any message with text content.
func ExtractText(reply *Reply) string {
	if reply == nil {
		return NoResponseFound
	}
	if reply.Text != nil {
		return *reply.Text
	}

	for _, msg := range reply.Messages {
		if msg.MessageType != assistantMessageType {
			continue
		}
		if text, ok := contentText(msg.Content); ok {
			return text
		}
	}

	for _, msg := range reply.Messages {
		if text, ok := contentText(msg.Content); ok {
			return text
		}
	}
	return NoResponseFound
}

// contentText reads content that is either a plain string or a list of typed
// parts, in which case the first "text" part wins.
func contentText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var parts []ContentPart
	if err := json.Unmarshal(raw, &parts); err == nil {
		for _, p := range parts {
			if p.Type == "text" {
				return p.Text, true
			}
		}
	}
	return "", false
}
