// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	s, err := NewSessions()
	require.NoError(t, err)

	token, err := s.CreateToken("player-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	playerID, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "player-123", playerID)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s, err := NewSessions()
	require.NoError(t, err)

	_, err = s.VerifyToken("not-a-token")
	assert.Error(t, err)

	_, err = s.VerifyToken("")
	assert.Error(t, err)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	a, err := NewSessions()
	require.NoError(t, err)
	b, err := NewSessions()
	require.NoError(t, err)

	token, err := a.CreateToken("player-123")
	require.NoError(t, err)

	_, err = b.VerifyToken(token)
	assert.Error(t, err, "token signed by another instance must not verify")
}

func TestTokenExpiry(t *testing.T) {
	t.Setenv("TOKEN_EXPIRE_TIME", "-1h")
	s, err := NewSessions()
	require.NoError(t, err)

	token, err := s.CreateToken("player-123")
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.Error(t, err, "expired token must not verify")
}
