package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalogShape(t *testing.T) {
	c := mustDefault(t)

	assert.Len(t, c.Questions, QuestionCount)
	assert.Len(t, c.Areas(), AreaCount)
	assert.ElementsMatch(t, c.Scoring.KnowledgeAreas, c.Areas())

	for _, area := range c.Scoring.KnowledgeAreas {
		assert.Contains(t, c.Scoring.RecommendedLevels, area)
		assert.Contains(t, c.Scoring.WeightByArea, area)
	}

	for _, q := range c.Questions {
		assert.NotEmpty(t, q.Question, "question %d", q.ID)
		assert.GreaterOrEqual(t, len(q.Options), 2, "question %d", q.ID)
		assert.NotEmpty(t, q.Explanation, "question %d", q.ID)
	}
}

func TestMultilineQuestionSurvivesYAML(t *testing.T) {
	q, ok := mustDefault(t).QuestionByID(15)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(q.Question, "What does the following code do?\n```python\n"))
	assert.True(t, strings.HasSuffix(q.Question, "return new_arr\n```"))
}

func TestTemplatesHaveSixPositiveWeeks(t *testing.T) {
	c := mustDefault(t)
	for level, tpl := range c.Templates {
		require.Len(t, tpl.WeeklyStructure, RoadmapWeeks, level)
		for i, w := range tpl.WeeklyStructure {
			assert.Equal(t, i+1, w.Week, level)
			assert.Positive(t, w.HoursPerWeek, level)
		}
	}
}

func TestChunksKeepsOrder(t *testing.T) {
	c := mustDefault(t)
	chunks := c.Chunks(4)
	require.Len(t, chunks, 4)

	id := 1
	for _, chunk := range chunks {
		assert.Len(t, chunk, 4)
		for _, q := range chunk {
			assert.Equal(t, id, q.ID)
			id++
		}
	}
}

func TestChunksFitBlockLimit(t *testing.T) {
	for i, chunk := range mustDefault(t).Chunks(4) {
		data, err := json.Marshal(chunk)
		require.NoError(t, err)
		assert.Less(t, len(data), 5000, "chunk %d", i+1)
	}
}

func TestValidateRejectsShortBank(t *testing.T) {
	c := mustDefault(t)
	c.Questions = c.Questions[:15]
	assert.ErrorContains(t, c.Validate(), "16 questions")
}

func TestParseRejectsMissingTemplate(t *testing.T) {
	c := mustDefault(t)
	delete(c.Templates, "advanced")
	assert.ErrorContains(t, c.Validate(), "advanced")
}

func TestTemplateForScore(t *testing.T) {
	assert.Equal(t, "beginner", TemplateForScore(0))
	assert.Equal(t, "beginner", TemplateForScore(49))
	assert.Equal(t, "intermediate", TemplateForScore(50))
	assert.Equal(t, "intermediate", TemplateForScore(75))
	assert.Equal(t, "advanced", TemplateForScore(76))
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Questions, QuestionCount)

	_, err = Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
