package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

type CompleterConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	// Timeout bounds a single completion; zero leaves it to the caller.
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// NewCompleter picks the model provider for hosted agents.
func NewCompleter(ctx context.Context, cfg CompleterConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAICompleter(cfg), nil
	case "gemini":
		return NewGeminiCompleter(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

func NewOpenAICompleter(cfg CompleterConfig) *OpenAICompleter {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system string, history []Turn, message string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, t := range history {
		role := openai.ChatMessageRoleUser
		if t.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
}

func NewGeminiCompleter(ctx context.Context, cfg CompleterConfig) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiCompleter{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens),
		timeout:     cfg.Timeout,
	}, nil
}

func (c *GeminiCompleter) Complete(ctx context.Context, system string, history []Turn, message string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	m.SetTemperature(c.temperature)
	if c.maxTokens > 0 {
		m.SetMaxOutputTokens(c.maxTokens)
	}

	cs := m.StartChat()
	cs.History = geminiHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated by Gemini")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

// geminiHistory maps transcript turns onto Gemini's user/model roles.
func geminiHistory(history []Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := "user"
		if t.Role == "assistant" {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Content)}})
	}
	return out
}

func (c *GeminiCompleter) Close() error {
	return c.client.Close()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
