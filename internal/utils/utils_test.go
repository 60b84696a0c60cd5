package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Refund Policy 2026  ", "refund-policy-2026"},
		{"What's new?!", "what-s-new"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcode gets stripped", "n-code-gets-stripped"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	tok, err := SignJWT("secret", "user-1", "agent", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "agent", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	tok, err := SignJWT("secret", "user-1", "agent", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("other", tok)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	tok, err := SignJWT("secret", "user-1", "agent", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT("secret", tok)
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("hunter2!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "hunter2!"))
	assert.False(t, CheckPassword(h, "hunter3!"))
}
