package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const (
	jsonFence = "```json"
	bareFence = "```"
)

// ParseFailure is returned when no JSON object could be carved out of an
// agent reply. Raw keeps the original text for server-side logging only.
type ParseFailure struct {
	Subject string
	Raw     string
	Err     error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("no parseable JSON in agent reply: %v", e.Err)
}

func (e *ParseFailure) Unwrap() error { return ErrUnexpectedBehaviorOfAI }

// UserMessage is the only part of a ParseFailure that reaches the browser.
func (e *ParseFailure) UserMessage() string {
	if e.Subject == "" {
		return "Failed to parse agent reply"
	}
	return fmt.Sprintf("Failed to parse %s data", e.Subject)
}

// CarveJSON decodes the JSON object embedded in text into v. The candidates
// are tried in order and the first one that decodes wins:
//  1. the body of the first ```json fenced block
//  2. the span from the first '{' to the last '}'
//  3. the whole text with a bare leading/trailing fence stripped
//
// v is only written when a candidate decodes completely.
func CarveJSON(text string, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &ParseFailure{Raw: text, Err: &json.InvalidUnmarshalError{Type: reflect.TypeOf(v)}}
	}

	var lastErr error
	for _, candidate := range jsonCandidates(text) {
		if !json.Valid([]byte(candidate)) {
			lastErr = fmt.Errorf("invalid JSON candidate")
			continue
		}
		fresh := reflect.New(rv.Elem().Type())
		if err := json.Unmarshal([]byte(candidate), fresh.Interface()); err != nil {
			lastErr = err
			continue
		}
		rv.Elem().Set(fresh.Elem())
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("empty reply")
	}
	return &ParseFailure{Raw: text, Err: lastErr}
}

func jsonCandidates(text string) []string {
	var out []string

	if start := strings.Index(text, jsonFence); start >= 0 {
		body := text[start+len(jsonFence):]
		if end := strings.Index(body, bareFence); end >= 0 {
			body = body[:end]
		}
		out = append(out, strings.TrimSpace(body))
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first >= 0 && last > first {
		out = append(out, text[first:last+1])
	}

	if whole := stripFences(text); whole != "" {
		out = append(out, whole)
	}
	return out
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, jsonFence) {
		text = text[len(jsonFence):]
	} else if strings.HasPrefix(text, bareFence) {
		text = text[len(bareFence):]
	}
	text = strings.TrimSuffix(text, bareFence)
	return strings.TrimSpace(text)
}
