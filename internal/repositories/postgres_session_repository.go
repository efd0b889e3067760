package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnpath/internal/models/db_models"
)

type postgresSessionRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewPostgresSessionRepository migrates the session tables and returns a
// gorm-backed repository.
func NewPostgresSessionRepository(db *gorm.DB, ttl time.Duration) (SessionRepository, error) {
	if err := db.AutoMigrate(&db_models.SessionRecord{}, &db_models.AgentReference{}); err != nil {
		return nil, dbError("auto migrate", err)
	}
	return &postgresSessionRepository{db: db, ttl: ttl}, nil
}

func (r *postgresSessionRepository) GetSession(ctx context.Context, token string) (*db_models.UserSession, error) {
	var rec db_models.SessionRecord
	err := r.db.WithContext(ctx).First(&rec, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError("find session", err)
	}
	if r.ttl > 0 && time.Since(time.Unix(rec.UpdatedAt, 0)) > r.ttl {
		return nil, nil
	}
	return decodeSession([]byte(rec.Payload))
}

func (r *postgresSessionRepository) SaveSession(ctx context.Context, session *db_models.UserSession) error {
	raw, err := encodeSession(session)
	if err != nil {
		return err
	}
	rec := db_models.SessionRecord{
		Token:   session.Token,
		Stage:   string(session.Stage),
		Payload: string(raw),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"stage", "payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return dbError("upsert session", err)
	}
	return nil
}

func (r *postgresSessionRepository) DeleteSession(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Delete(&db_models.SessionRecord{}, "token = ?", token).Error; err != nil {
		return dbError("delete session", err)
	}
	return nil
}

func (r *postgresSessionRepository) GetAgentRef(ctx context.Context) (string, error) {
	var ref db_models.AgentReference
	err := r.db.WithContext(ctx).First(&ref, "key = ?", EvaluatorAgentKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", dbError("find agent reference", err)
	}
	return ref.AgentID, nil
}

func (r *postgresSessionRepository) SaveAgentRef(ctx context.Context, agentID string) error {
	ref := db_models.AgentReference{Key: EvaluatorAgentKey, AgentID: agentID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"agent_id", "updated_at"}),
	}).Create(&ref).Error
	if err != nil {
		return dbError("upsert agent reference", err)
	}
	return nil
}
