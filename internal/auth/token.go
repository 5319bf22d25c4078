package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32

// SessionCredentials is what a login hands out. Session goes into the
// cookie, CSRF is echoed by the browser in a header, and only SessionHash
// is stored.
type SessionCredentials struct {
	Session     string
	SessionHash string
	CSRF        string
}

func NewSessionCredentials() (SessionCredentials, error) {
	session, err := GenerateToken()
	if err != nil {
		return SessionCredentials{}, fmt.Errorf("session token: %w", err)
	}
	csrf, err := GenerateToken()
	if err != nil {
		return SessionCredentials{}, fmt.Errorf("csrf token: %w", err)
	}
	return SessionCredentials{Session: session, SessionHash: HashToken(session), CSRF: csrf}, nil
}

func GenerateToken() (string, error) {
	var b [tokenBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokensEqual compares in constant time. An empty expected token never matches.
func TokensEqual(got, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}
