package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	pair, err := svc.GenerateTokenPair("learner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	userID, err := svc.VerifyJWTToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "learner-1", userID)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)
	expired := NewJWTService("test-secret", -time.Minute)

	foreign, err := other.ToJWT("learner-1")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(foreign)
	assert.Error(t, err)

	stale, err := expired.ToJWT("learner-1")
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(stale)
	assert.Error(t, err)

	_, err = svc.VerifyJWTToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenFromHeader(t *testing.T) {
	svc := NewJWTService("s", time.Hour)

	token, err := svc.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = svc.ExtractTokenFromHeader("")
	assert.Error(t, err)
	_, err = svc.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)
}
