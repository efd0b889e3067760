package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"learnpath/internal/models/db_models"
)

const sqliteSchema = `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS user_sessions (
		token TEXT PRIMARY KEY,
		stage TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_user_sessions_updated ON user_sessions(updated_at);

	CREATE TABLE IF NOT EXISTS agent_references (
		key TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
`

type sqliteSessionRepository struct {
	db *sql.DB
	// writeMu serializes writes to avoid SQLITE_BUSY under concurrent requests.
	writeMu sync.Mutex
	ttl     time.Duration
	now     func() time.Time
}

// NewSQLiteSessionRepository creates the schema if needed. Sessions older
// than ttl (by last update) are treated as missing; ttl <= 0 disables that.
func NewSQLiteSessionRepository(db *sql.DB, ttl time.Duration) (SessionRepository, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, dbError("create schema", err)
	}
	return &sqliteSessionRepository{db: db, ttl: ttl, now: time.Now}, nil
}

func (r *sqliteSessionRepository) GetSession(ctx context.Context, token string) (*db_models.UserSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT payload, updated_at FROM user_sessions WHERE token = ?`, token)

	var payload string
	var updatedAt int64
	err := row.Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError("scan session row", err)
	}
	if r.ttl > 0 && r.now().Sub(time.Unix(updatedAt, 0)) > r.ttl {
		return nil, nil
	}
	return decodeSession([]byte(payload))
}

func (r *sqliteSessionRepository) SaveSession(ctx context.Context, session *db_models.UserSession) error {
	raw, err := encodeSession(session)
	if err != nil {
		return err
	}
	now := r.now().Unix()

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (token, stage, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			stage = excluded.stage,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		session.Token, string(session.Stage), string(raw), now, now)
	if err != nil {
		return dbError("upsert session", err)
	}
	return nil
}

func (r *sqliteSessionRepository) DeleteSession(ctx context.Context, token string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE token = ?`, token); err != nil {
		return dbError("delete session", err)
	}
	return nil
}

func (r *sqliteSessionRepository) GetAgentRef(ctx context.Context) (string, error) {
	var agentID string
	err := r.db.QueryRowContext(ctx, `SELECT agent_id FROM agent_references WHERE key = ?`, EvaluatorAgentKey).Scan(&agentID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", dbError("scan agent reference", err)
	}
	return agentID, nil
}

func (r *sqliteSessionRepository) SaveAgentRef(ctx context.Context, agentID string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agent_references (key, agent_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET agent_id = excluded.agent_id, updated_at = excluded.updated_at`,
		EvaluatorAgentKey, agentID, r.now().Unix())
	if err != nil {
		return dbError("upsert agent reference", err)
	}
	return nil
}
