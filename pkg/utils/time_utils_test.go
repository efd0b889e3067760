package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowSessionTimestamp(t *testing.T) {
	before := time.Now().Truncate(time.Second)
	got, err := time.ParseInLocation(SessionTimeLayout, NowSessionTimestamp(), time.Local)
	require.NoError(t, err)
	assert.False(t, got.Before(before))
	assert.WithinDuration(t, time.Now(), got, 2*time.Second)
}
