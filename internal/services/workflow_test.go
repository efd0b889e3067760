package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"learnpath/internal/models/db_models"
	"learnpath/internal/models/response_models"
	"learnpath/pkg/utils"
)

func TestGuard(t *testing.T) {
	score := 10.0
	withQuestions := func(stage db_models.Stage) *db_models.UserSession {
		s := db_models.NewUserSession("t", "")
		s.Stage = stage
		s.Questions = []response_models.Question{{ID: 1}}
		return s
	}
	evaluated := withQuestions(db_models.StageEvaluated)
	evaluated.Score = &score

	tests := []struct {
		name    string
		session *db_models.UserSession
		op      Operation
		ok      bool
	}{
		{"profile from new", db_models.NewUserSession("t", ""), OpSaveProfile, true},
		{"questions without profile", db_models.NewUserSession("t", ""), OpFetchQuestions, true},
		{"chat from new", db_models.NewUserSession("t", ""), OpChat, true},
		{"answers from new", db_models.NewUserSession("t", ""), OpSubmitAnswers, false},
		{"answers after questions", withQuestions(db_models.StageQuestioned), OpSubmitAnswers, true},
		{"answers with stage but no questions", func() *db_models.UserSession {
			s := db_models.NewUserSession("t", "")
			s.Stage = db_models.StageQuestioned
			return s
		}(), OpSubmitAnswers, false},
		{"roadmap after questions", withQuestions(db_models.StageQuestioned), OpGenerateRoadmap, false},
		{"roadmap after evaluation", evaluated, OpGenerateRoadmap, true},
		{"roadmap at evaluated without score", withQuestions(db_models.StageEvaluated), OpGenerateRoadmap, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard(tt.session, tt.op)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var se *StageError
			assert.True(t, errors.As(err, &se))
			assert.True(t, errors.Is(err, utils.ErrPrecondition))
			assert.Equal(t, tt.op, se.Op)
		})
	}
}

func TestAdvanceIsMonotone(t *testing.T) {
	s := db_models.NewUserSession("t", "")

	advance(s, OpSaveProfile)
	assert.Equal(t, db_models.StageProfiled, s.Stage)

	advance(s, OpFetchQuestions)
	advance(s, OpSubmitAnswers)
	assert.Equal(t, db_models.StageEvaluated, s.Stage)

	advance(s, OpSaveProfile)
	advance(s, OpFetchQuestions)
	advance(s, OpChat)
	assert.Equal(t, db_models.StageEvaluated, s.Stage)
}
