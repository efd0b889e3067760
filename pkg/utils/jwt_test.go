package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSignerRoundTrip(t *testing.T) {
	signer, err := NewSessionSigner("a-long-enough-secret")
	require.NoError(t, err)

	signed, err := signer.Sign("token-123")
	require.NoError(t, err)

	token, err := signer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
}

func TestSessionSignerRejectsForeignKey(t *testing.T) {
	a, err := NewSessionSigner("secret-a")
	require.NoError(t, err)
	b, err := NewSessionSigner("secret-b")
	require.NoError(t, err)

	signed, err := a.Sign("token-123")
	require.NoError(t, err)

	_, err = b.Verify(signed)
	assert.Error(t, err)

	_, err = a.Verify("not-a-jwt")
	assert.Error(t, err)
}

func TestNewSessionSignerRequiresSecret(t *testing.T) {
	_, err := NewSessionSigner("")
	assert.Error(t, err)
}
