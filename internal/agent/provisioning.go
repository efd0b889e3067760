package agent

import (
	"encoding/json"
	"fmt"

	"learnpath/internal/catalog"
)

// BlockCharLimit caps every memory block the agent is created with.
const BlockCharLimit = 5000

const questionBlocks = 4

type ProvisionOptions struct {
	Model                 string
	ModelEndpointType     string
	EmbeddingModel        string
	EmbeddingEndpointType string
}

type userHistory struct {
	EvaluationsCompleted int             `json:"evaluations_completed"`
	LastEvaluation       json.RawMessage `json:"last_evaluation"`
	RoadmapsGenerated    int             `json:"roadmaps_generated"`
}

// BuildCreateRequest assembles the agent definition from the catalog: core
// instructions, the question bank split over four blocks, an empty user
// history, the scoring logic and the roadmap templates.
func BuildCreateRequest(c *catalog.Catalog, opts ProvisionOptions) (CreateAgentRequest, error) {
	blocks := []MemoryBlock{{Label: "core_instructions", Value: c.Agent.Instructions, Limit: BlockCharLimit}}

	for i, chunk := range c.Chunks(questionBlocks) {
		b, err := jsonBlock(fmt.Sprintf("assessment_questions_%d", i+1), chunk)
		if err != nil {
			return CreateAgentRequest{}, err
		}
		blocks = append(blocks, b)
	}

	rest := []struct {
		label string
		value any
	}{
		{"user_history", userHistory{}},
		{"scoring_logic", c.Scoring},
		{"roadmap_templates", c.Templates},
	}
	for _, r := range rest {
		b, err := jsonBlock(r.label, r.value)
		if err != nil {
			return CreateAgentRequest{}, err
		}
		blocks = append(blocks, b)
	}

	for _, b := range blocks {
		if len(b.Value) > BlockCharLimit {
			return CreateAgentRequest{}, fmt.Errorf("memory block %s is %d chars, limit %d", b.Label, len(b.Value), BlockCharLimit)
		}
	}

	return CreateAgentRequest{
		Name:         c.Agent.Name,
		System:       c.Agent.System,
		AgentType:    c.Agent.AgentType,
		MemoryBlocks: blocks,
		LLMConfig: LLMConfig{
			Model:             opts.Model,
			ModelEndpointType: opts.ModelEndpointType,
			Temperature:       0.7,
			ContextWindow:     16000,
			MaxTokens:         4000,
		},
		EmbeddingConfig: EmbeddingConfig{
			EmbeddingModel:        opts.EmbeddingModel,
			EmbeddingEndpointType: opts.EmbeddingEndpointType,
			EmbeddingDim:          1536,
		},
		Description: c.Agent.Description,
	}, nil
}

func jsonBlock(label string, v any) (MemoryBlock, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return MemoryBlock{}, fmt.Errorf("encode %s: %w", label, err)
	}
	return MemoryBlock{Label: label, Value: string(raw), Limit: BlockCharLimit}, nil
}
