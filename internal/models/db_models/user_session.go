package db_models

import (
	"learnpath/internal/models/response_models"
)

type Stage string

const (
	StageNew        Stage = "new"
	StageProfiled   Stage = "profiled"
	StageQuestioned Stage = "questioned"
	StageEvaluated  Stage = "evaluated"
	StageRoadmapped Stage = "roadmapped"
)

var stageRank = map[Stage]int{
	StageNew:        0,
	StageProfiled:   1,
	StageQuestioned: 2,
	StageEvaluated:  3,
	StageRoadmapped: 4,
}

// Rank orders stages; unknown values rank as StageNew.
func (s Stage) Rank() int {
	return stageRank[s]
}

// UserSession is the per-browser workflow state. It is stored as a whole
// document by every repository backend.
type UserSession struct {
	Token      string `json:"token"`
	Experience string `json:"experience,omitempty"`
	Education  string `json:"education,omitempty"`
	Goal       string `json:"goal,omitempty"`

	Questions []response_models.Question           `json:"questions"`
	Answers   []string                             `json:"answers"`
	Score     *float64                             `json:"score"`
	Areas     map[string]response_models.AreaScore `json:"areas"`
	Review    []response_models.ReviewEntry        `json:"review,omitempty"`
	Roadmap   *response_models.Roadmap             `json:"roadmap"`
	Chat      []response_models.ChatTurn           `json:"chat_history,omitempty"`

	EvaluationsCompleted int    `json:"evaluations_completed"`
	RoadmapsGenerated    int    `json:"roadmaps_generated"`
	Stage                Stage  `json:"stage"`
	SessionStart         string `json:"session_start"`
}

func NewUserSession(token, startedAt string) *UserSession {
	return &UserSession{
		Token:        token,
		Questions:    []response_models.Question{},
		Answers:      []string{},
		Areas:        map[string]response_models.AreaScore{},
		Stage:        StageNew,
		SessionStart: startedAt,
	}
}

func (s *UserSession) HasProfile() bool {
	return s.Experience != "" && s.Education != "" && s.Goal != ""
}

// Reset returns the session to its initial empty values, keeping the token.
func (s *UserSession) Reset(startedAt string) {
	*s = *NewUserSession(s.Token, startedAt)
}
