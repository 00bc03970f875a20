package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticVerifierPlaintext(t *testing.T) {
	v := NewStaticVerifier("admin", "stonecraft")

	assert.True(t, v.Verify("admin", "stonecraft"))
	assert.False(t, v.Verify("admin", "wrong"))
	assert.False(t, v.Verify("nobody", "stonecraft"))
	assert.False(t, v.Verify("Admin", "stonecraft")) // case sensitive
	assert.False(t, v.Verify("", ""))
}

func TestStaticVerifierBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("stonecraft"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewStaticVerifier("admin", string(hash))

	assert.True(t, v.Verify("admin", "stonecraft"))
	assert.False(t, v.Verify("admin", "wrong"))
	assert.False(t, v.Verify("nobody", "stonecraft"))
}
