package services

import (
	"fmt"
	"math"

	"learnpath/internal/catalog"
	"learnpath/internal/models/response_models"
)

// ScoreVerifier grades an answer sheet against the catalog answer key and
// compares or overwrites what the agent reported.
type ScoreVerifier struct {
	catalog *catalog.Catalog
	enforce bool
}

func NewScoreVerifier(c *catalog.Catalog, enforce bool) *ScoreVerifier {
	return &ScoreVerifier{catalog: c, enforce: enforce}
}

// Discrepancy is one place the agent's grading disagrees with the answer key.
type Discrepancy struct {
	Field string
	Agent string
	Local string
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s: agent=%s local=%s", d.Field, d.Agent, d.Local)
}

// answerSheet pairs answers with questions by position.
func answerSheet(questions []response_models.Question, answers []string) map[int]string {
	sheet := make(map[int]string, len(questions))
	for i, q := range questions {
		if i < len(answers) {
			sheet[q.ID] = answers[i]
		}
	}
	return sheet
}

// Verify grades the sheet locally and reports disagreements with eval. When
// the verifier enforces, eval is rewritten with the local grading.
func (v *ScoreVerifier) Verify(eval *response_models.Evaluation, questions []response_models.Question, answers []string) []Discrepancy {
	sheet := answerSheet(questions, answers)
	grading := v.catalog.Grade(sheet)

	var diffs []Discrepancy
	if eval.Score == nil || !sameScore(*eval.Score, grading.Score) {
		diffs = append(diffs, Discrepancy{Field: "score", Agent: scoreString(eval.Score), Local: fmt.Sprintf("%g", grading.Score)})
	}
	for _, area := range v.catalog.Areas() {
		local := grading.Areas[area].Score
		got, ok := eval.Areas[area]
		if !ok || !sameScore(got.Score, local) {
			agent := "missing"
			if ok {
				agent = fmt.Sprintf("%g", got.Score)
			}
			diffs = append(diffs, Discrepancy{Field: "areas." + area, Agent: agent, Local: fmt.Sprintf("%g", local)})
		}
	}
	for _, r := range eval.Review {
		if want, ok := grading.Correct[r.QuestionID]; ok && want != r.Correct {
			diffs = append(diffs, Discrepancy{
				Field: fmt.Sprintf("review.%d", r.QuestionID),
				Agent: fmt.Sprintf("%t", r.Correct),
				Local: fmt.Sprintf("%t", want),
			})
		}
	}

	if v.enforce {
		v.apply(eval, grading, sheet)
	}
	return diffs
}

func (v *ScoreVerifier) apply(eval *response_models.Evaluation, grading catalog.Grading, sheet map[int]string) {
	score := grading.Score
	eval.Score = &score

	if eval.Areas == nil {
		eval.Areas = make(map[string]response_models.AreaScore, len(grading.Areas))
	}
	for area, g := range grading.Areas {
		a := eval.Areas[area]
		a.Score = g.Score
		if a.Recommended == 0 {
			a.Recommended = v.catalog.Scoring.RecommendedLevels[area]
		}
		eval.Areas[area] = a
	}

	reviewed := make(map[int]bool, len(eval.Review))
	for i := range eval.Review {
		id := eval.Review[i].QuestionID
		if ok, known := grading.Correct[id]; known {
			eval.Review[i].Correct = ok
		}
		reviewed[id] = true
	}
	for _, q := range v.catalog.Questions {
		if reviewed[q.ID] {
			continue
		}
		eval.Review = append(eval.Review, response_models.ReviewEntry{
			QuestionID:  q.ID,
			Correct:     grading.Correct[q.ID],
			UserAnswer:  sheet[q.ID],
			Explanation: q.Explanation,
		})
	}
}

func sameScore(a, b float64) bool {
	return math.Abs(a-b) < 0.5
}

func scoreString(v *float64) string {
	if v == nil {
		return "missing"
	}
	return fmt.Sprintf("%g", *v)
}
