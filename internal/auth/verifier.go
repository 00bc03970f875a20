package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks a username/password pair. The boolean result
// deliberately carries no detail: an unknown username and a wrong password
// are indistinguishable to the caller.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticVerifier matches against the single configured admin identity.
// The configured password may be plaintext or a bcrypt hash.
type StaticVerifier struct {
	username string
	password string
}

func NewStaticVerifier(username, password string) *StaticVerifier {
	return &StaticVerifier{username: username, password: password}
}

func (v *StaticVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1

	var passOK bool
	if isBcryptHash(v.password) {
		passOK = bcrypt.CompareHashAndPassword([]byte(v.password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	}

	return userOK && passOK
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
