package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/prn-tf/chronicle/internal/domain"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("per-test-secret"))
	user := domain.NewUser("alice", "Alice", "$2a$10$hash")

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("username mismatch: got %q want %q", claims.Username, "alice")
	}

	subject, err := claims.Subject()
	if err != nil {
		t.Fatalf("Subject error: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("subject mismatch: got %s want %s", subject, user.ID)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	user := domain.NewUser("bob", "", "$2a$10$hash")
	token, err := NewTokenService([]byte("right-secret")).Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService([]byte("wrong-secret")).Verify(token)
	if err == nil {
		t.Fatal("expected error for tampered signature, got nil")
	}
	if !IsTokenInvalid(err) {
		t.Fatalf("expected TokenInvalidError, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("k"))

	for _, token := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := svc.Verify(token); err == nil {
			t.Fatalf("expected error for token %q, got nil", token)
		}
	}
}

func TestSubject_MissingUserIDClaim(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "eve"})
	signed, err := raw.SignedString(secret)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	claims, err := NewTokenService(secret).Verify(signed)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if _, err := claims.Subject(); err != ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestSubject_MalformedUserIDClaim(t *testing.T) {
	t.Parallel()

	claims := &Claims{UserID: "not-a-uuid"}
	if _, err := claims.Subject(); err != ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := (&Claims{UserID: uuid.New().String()}).Subject(); err != nil {
		t.Fatalf("unexpected error for valid uuid: %v", err)
	}
}
