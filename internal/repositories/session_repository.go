package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"learnpath/internal/models/db_models"
	"learnpath/pkg/utils"
)

// EvaluatorAgentKey names the single agent reference row.
const EvaluatorAgentKey = "evaluator"

// SessionRepository stores per-browser sessions and the agent reference.
// GetSession and GetAgentRef return zero values, not errors, on a miss.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*db_models.UserSession, error)
	SaveSession(ctx context.Context, session *db_models.UserSession) error
	DeleteSession(ctx context.Context, token string) error

	GetAgentRef(ctx context.Context) (string, error)
	SaveAgentRef(ctx context.Context, agentID string) error
}

func encodeSession(s *db_models.UserSession) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: encode session: %v", utils.ErrDatabaseError, err)
	}
	return raw, nil
}

func decodeSession(raw []byte) (*db_models.UserSession, error) {
	var s db_models.UserSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", utils.ErrDatabaseError, err)
	}
	if s.Stage == "" {
		s.Stage = db_models.StageNew
	}
	return &s, nil
}

func dbError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", utils.ErrDatabaseError, op, err)
}
