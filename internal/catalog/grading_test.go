package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerMatches(t *testing.T) {
	cases := []struct {
		given, key string
		want       bool
	}{
		{"A", "A", true},
		{"a", "A", true},
		{"B", "A", false},
		{"", "A", false},
		{"A", "A,D", false},
		{"D,A", "A,D", true},
		{" a , d ", "A,D", true},
		{"A,B,D", "A,D", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AnswerMatches(tc.given, tc.key), "%q vs %q", tc.given, tc.key)
	}
}

func TestGradeAllCorrect(t *testing.T) {
	c := mustDefault(t)
	answers := map[int]string{}
	for _, q := range c.Questions {
		answers[q.ID] = q.CorrectAnswer
	}

	g := c.Grade(answers)
	assert.Equal(t, 100.0, g.Score)
	assert.Len(t, g.Areas, AreaCount)
	for area, a := range g.Areas {
		assert.Equal(t, 100.0, a.Score, area)
	}
}

func TestGradePartial(t *testing.T) {
	c := mustDefault(t)
	// Binary Search holds questions 1-4; answer two of them correctly.
	g := c.Grade(map[int]string{1: "A", 2: "A", 3: "B"})

	bs := g.Areas["Binary Search"]
	assert.Equal(t, 4, bs.Total)
	assert.Equal(t, 2, bs.Correct)
	assert.Equal(t, 50.0, bs.Score)
	assert.Equal(t, 13.0, g.Score) // 2/16 rounds to 13
	assert.True(t, g.Correct[1])
	assert.False(t, g.Correct[3])
	assert.False(t, g.Correct[16])
}
