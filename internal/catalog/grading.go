package catalog

import (
	"math"
	"sort"
	"strings"
)

type AreaGrade struct {
	Correct int
	Total   int
	Score   float64
}

// Grading is the local answer-key result for one answer sheet.
type Grading struct {
	Score   float64
	Areas   map[string]AreaGrade
	Correct map[int]bool
}

// Grade scores answers (question id -> selected option ids) against the
// answer key. Unanswered questions count as wrong.
func (c *Catalog) Grade(answers map[int]string) Grading {
	g := Grading{
		Areas:   make(map[string]AreaGrade),
		Correct: make(map[int]bool, len(c.Questions)),
	}

	correct := 0
	for _, q := range c.Questions {
		ok := AnswerMatches(answers[q.ID], q.CorrectAnswer)
		g.Correct[q.ID] = ok

		a := g.Areas[q.Area]
		a.Total++
		if ok {
			a.Correct++
			correct++
		}
		g.Areas[q.Area] = a
	}

	for name, a := range g.Areas {
		a.Score = percent(a.Correct, a.Total)
		g.Areas[name] = a
	}
	g.Score = percent(correct, len(c.Questions))
	return g
}

// AnswerMatches compares option-id sets, ignoring order, case and spacing:
// "d, a" matches the key "A,D".
func AnswerMatches(given, key string) bool {
	g, k := optionSet(given), optionSet(key)
	if len(g) == 0 || len(g) != len(k) {
		return false
	}
	for i := range g {
		if g[i] != k[i] {
			return false
		}
	}
	return true
}

func optionSet(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	sort.Strings(out)
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n) / float64(total) * 100)
}
