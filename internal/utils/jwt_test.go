package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		sid := NewSessionID()
		tok, err := NewSessionToken("secret", sid, time.Hour)
		require.NoError(t, err)
		assert.True(t, tok.Exp.After(time.Now()))

		got, err := ParseSessionToken("secret", tok.Token)
		require.NoError(t, err)
		assert.Equal(t, sid, got)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		tok, err := NewSessionToken("secret", "abc", time.Hour)
		require.NoError(t, err)
		_, err = ParseSessionToken("other", tok.Token)
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("Expired", func(t *testing.T) {
		tok, err := NewSessionToken("secret", "abc", -time.Minute)
		require.NoError(t, err)
		_, err = ParseSessionToken("secret", tok.Token)
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("Missing Sid", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = ParseSessionToken("secret", raw)
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseSessionToken("secret", "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})
}
