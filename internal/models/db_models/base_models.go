package db_models

// SessionRecord persists a UserSession document keyed by its token. gorm
// stamps both times in unix seconds.
type SessionRecord struct {
	Token     string `gorm:"primaryKey;size:64"`
	Stage     string `gorm:"size:16;index"`
	Payload   string `gorm:"type:text;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
	UpdatedAt int64  `gorm:"autoUpdateTime;index"`
}

func (SessionRecord) TableName() string { return "user_sessions" }

// AgentReference is the single row naming the remote agent currently in use.
type AgentReference struct {
	Key       string `gorm:"primaryKey;size:32"`
	AgentID   string `gorm:"size:128;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (AgentReference) TableName() string { return "agent_references" }
