package auth

import (
	"errors"
	"strings"
	"testing"
)

var cheapParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPasswordWithParams("Admin12345!", cheapParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", encoded)
	}

	ok, err := VerifyPassword("Admin12345!", encoded)
	if err != nil || !ok {
		t.Fatalf("expected password to verify, ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword("wrong", encoded)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$a2V5",
	} {
		if _, err := VerifyPassword("x", encoded); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("VerifyPassword(%q) err = %v, want ErrInvalidHash", encoded, err)
		}
	}
}

func TestTokens(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _ := GenerateToken()
	if a == b || len(a) != 43 {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
	if HashToken(a) == a || HashToken(a) != HashToken(a) || len(HashToken(a)) != 64 {
		t.Fatalf("hash must be deterministic and differ from the token")
	}
}

func TestNewSessionCredentials(t *testing.T) {
	creds, err := NewSessionCredentials()
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if creds.Session == creds.CSRF {
		t.Fatalf("session and csrf tokens must differ")
	}
	if creds.SessionHash != HashToken(creds.Session) {
		t.Fatalf("stored hash does not match the cookie token")
	}
}

func TestTokensEqual(t *testing.T) {
	if !TokensEqual("abc", "abc") {
		t.Fatalf("equal tokens should match")
	}
	if TokensEqual("abc", "abd") || TokensEqual("", "") {
		t.Fatalf("different or empty tokens must not match")
	}
}
