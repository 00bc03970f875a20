package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "stonecraft", "stonecraft", 0)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "stonecraft", claims.Issuer)

	// default lifetime is 4 hours from issuance
	expected := time.Now().Add(DefaultTokenTTL)
	assert.WithinDuration(t, expected, claims.ExpiresAt.Time, time.Minute)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", "stonecraft", "stonecraft", 0)
	other := NewTokenIssuer("secret-b", "stonecraft", "stonecraft", 0)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuerOrAudience(t *testing.T) {
	issuer := NewTokenIssuer("secret", "stonecraft", "stonecraft", 0)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	wrongIssuer := NewTokenIssuer("secret", "someone-else", "stonecraft", 0)
	_, err = wrongIssuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := NewTokenIssuer("secret", "stonecraft", "someone-else", 0)
	_, err = wrongAudience.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", "stonecraft", "stonecraft", time.Millisecond)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
