package jwt_test

import (
	"testing"
	"time"

	"surprise_week/internal/lib/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := jwt.NewToken("device-7", "top-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	deviceID, err := jwt.ParseToken(token, "top-secret")
	require.NoError(t, err)
	assert.Equal(t, "device-7", deviceID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := jwt.NewToken("device-7", "top-secret", time.Hour)
	require.NoError(t, err)

	_, err = jwt.ParseToken(token, "another-secret")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := jwt.NewToken("device-7", "top-secret", -time.Minute)
	require.NoError(t, err)

	_, err = jwt.ParseToken(token, "top-secret")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := jwt.ParseToken("not.a.token", "top-secret")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
