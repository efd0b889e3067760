package services

import (
	"fmt"

	"learnpath/internal/models/db_models"
	"learnpath/pkg/utils"
)

type Operation string

const (
	OpSaveProfile     Operation = "save_profile"
	OpFetchQuestions  Operation = "get_questions"
	OpSubmitAnswers   Operation = "submit_answers"
	OpGenerateRoadmap Operation = "generate_roadmap"
	OpChat            Operation = "chat"
)

// transition is one row of the workflow table: the stage an operation needs,
// what to tell the user when it is missing, and the stage it leads to.
type transition struct {
	requires db_models.Stage
	missing  string
	advances db_models.Stage
	// holds double-checks the data the required stage promises.
	holds func(*db_models.UserSession) bool
}

var transitions = map[Operation]transition{
	OpSaveProfile:    {requires: db_models.StageNew, advances: db_models.StageProfiled},
	OpFetchQuestions: {requires: db_models.StageNew, advances: db_models.StageQuestioned},
	OpSubmitAnswers: {
		requires: db_models.StageQuestioned,
		missing:  "No questions found for evaluation",
		advances: db_models.StageEvaluated,
		holds:    func(s *db_models.UserSession) bool { return len(s.Questions) > 0 },
	},
	OpGenerateRoadmap: {
		requires: db_models.StageEvaluated,
		missing:  "Please complete the evaluation first",
		advances: db_models.StageRoadmapped,
		holds:    func(s *db_models.UserSession) bool { return s.Score != nil },
	},
	OpChat: {requires: db_models.StageNew},
}

// StageError reports an operation called before the step it depends on.
type StageError struct {
	Op       Operation
	Stage    db_models.Stage
	Required db_models.Stage
	Message  string
}

func (e *StageError) Error() string {
	return e.Message
}

func (e *StageError) Unwrap() error { return utils.ErrPrecondition }

// guard is the only place out-of-order calls are rejected.
func guard(session *db_models.UserSession, op Operation) error {
	t, ok := transitions[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}
	if session.Stage.Rank() < t.requires.Rank() || (t.holds != nil && !t.holds(session)) {
		return &StageError{Op: op, Stage: session.Stage, Required: t.requires, Message: t.missing}
	}
	return nil
}

// advance moves the session forward. It never lowers the stage, so fetching
// questions again after an evaluation keeps the evaluation.
func advance(session *db_models.UserSession, op Operation) {
	next := transitions[op].advances
	if next == "" {
		return
	}
	if next.Rank() > session.Stage.Rank() {
		session.Stage = next
	}
}
