package db_models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestSessionRecordTimestampsComeFromGorm(t *testing.T) {
	s, err := schema.Parse(&SessionRecord{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.Equal(t, "user_sessions", s.Table)
	assert.False(t, s.BeforeSave, "timestamps are set by gorm tags only")
	assert.False(t, s.BeforeCreate)
	assert.False(t, s.BeforeUpdate)

	created := s.LookUpField("CreatedAt")
	require.NotNil(t, created)
	assert.Equal(t, schema.UnixSecond, created.AutoCreateTime)

	updated := s.LookUpField("UpdatedAt")
	require.NotNil(t, updated)
	assert.Equal(t, schema.UnixSecond, updated.AutoUpdateTime)
}

func TestAgentReferenceSchema(t *testing.T) {
	s, err := schema.Parse(&AgentReference{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.Equal(t, "agent_references", s.Table)
	require.NotNil(t, s.PrioritizedPrimaryField)
	assert.Equal(t, "key", s.PrioritizedPrimaryField.DBName)
}
