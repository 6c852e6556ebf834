package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Raw)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), tok.Exp, 5*time.Second)

	uid, err := ParseSessionToken("secret", tok.Raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", tok.Raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok.Raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashSessionTokenIsStable(t *testing.T) {
	a := HashSessionToken("abc")
	b := HashSessionToken("abc")
	c := HashSessionToken("abd")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
