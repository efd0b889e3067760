package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath/internal/catalog"
	"learnpath/internal/models/response_models"
)

func TestBuildCreateRequest(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	req, err := BuildCreateRequest(cat, ProvisionOptions{
		Model:                 "gpt-4",
		ModelEndpointType:     "openai",
		EmbeddingModel:        "text-embedding-ada-002",
		EmbeddingEndpointType: "openai",
	})
	require.NoError(t, err)

	labels := make([]string, 0, len(req.MemoryBlocks))
	for _, b := range req.MemoryBlocks {
		labels = append(labels, b.Label)
		assert.LessOrEqual(t, len(b.Value), BlockCharLimit, b.Label)
	}
	assert.Equal(t, []string{
		"core_instructions",
		"assessment_questions_1",
		"assessment_questions_2",
		"assessment_questions_3",
		"assessment_questions_4",
		"user_history",
		"scoring_logic",
		"roadmap_templates",
	}, labels)

	var total int
	for _, b := range req.MemoryBlocks[1:5] {
		var qs []response_models.Question
		require.NoError(t, json.Unmarshal([]byte(b.Value), &qs))
		total += len(qs)
	}
	assert.Equal(t, catalog.QuestionCount, total)

	assert.JSONEq(t, `{"evaluations_completed":0,"last_evaluation":null,"roadmaps_generated":0}`, req.MemoryBlocks[5].Value)

	assert.Equal(t, "LearningPathGenerator", req.Name)
	assert.Equal(t, 0.7, req.LLMConfig.Temperature)
	assert.Equal(t, 16000, req.LLMConfig.ContextWindow)
	assert.Equal(t, 4000, req.LLMConfig.MaxTokens)
	assert.Equal(t, 1536, req.EmbeddingConfig.EmbeddingDim)
	assert.Equal(t, "gpt-4", req.LLMConfig.Model)
}
