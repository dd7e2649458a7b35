package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInAnonymous(t *testing.T) {
	s := NewService("test-secret", time.Hour)

	first, err := s.SignInAnonymous()
	require.NoError(t, err)
	second, err := s.SignInAnonymous()
	require.NoError(t, err)

	assert.True(t, first.Anonymous)
	assert.NotEmpty(t, first.Token)
	assert.NotEqual(t, first.UserID, second.UserID)
}

func TestSignInWithValidToken(t *testing.T) {
	s := NewService("test-secret", time.Hour)

	anon, err := s.SignInAnonymous()
	require.NoError(t, err)

	session, err := s.SignInWithToken(anon.Token)
	require.NoError(t, err)

	assert.Equal(t, anon.UserID, session.UserID)
	assert.False(t, session.Anonymous)
}

func TestSignInWithInvalidTokenFallsBackToAnonymous(t *testing.T) {
	s := NewService("test-secret", time.Hour)

	session, err := s.SignInWithToken("not-a-jwt")
	require.NoError(t, err)
	assert.True(t, session.Anonymous)
	assert.NotEmpty(t, session.UserID)
}

func TestSignInWithForeignSecretFallsBackToAnonymous(t *testing.T) {
	issuer := NewService("other-secret", time.Hour)
	s := NewService("test-secret", time.Hour)

	foreign, err := issuer.SignInAnonymous()
	require.NoError(t, err)

	session, err := s.SignInWithToken(foreign.Token)
	require.NoError(t, err)
	assert.True(t, session.Anonymous)
	assert.NotEqual(t, foreign.UserID, session.UserID)
}

func TestVerifyToken(t *testing.T) {
	s := NewService("test-secret", time.Hour)

	anon, err := s.SignInAnonymous()
	require.NoError(t, err)

	userID, err := s.VerifyToken(anon.Token)
	require.NoError(t, err)
	assert.Equal(t, anon.UserID, userID)

	_, err = s.VerifyToken("garbage")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	s := NewService("test-secret", -time.Minute)

	anon, err := s.SignInAnonymous()
	require.NoError(t, err)

	_, err = s.VerifyToken(anon.Token)
	assert.Error(t, err)
}
