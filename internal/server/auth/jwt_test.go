package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/todoserver/internal/common"
)

func TestIssueAndDecode_Success(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("super-secret"))
	subject := "alice"

	tok, err := codec.Issue(subject, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	gotSubject, exp, err := codec.Decode(tok)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if gotSubject != subject {
		t.Fatalf("subject mismatch: got %q want %q", gotSubject, subject)
	}
	if remaining := time.Until(exp); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("unexpected expiry, %v remaining", remaining)
	}
}

func TestIssue_UniqueWithinSameSecond(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("k"))

	// back to back, well inside one second of iat/exp precision
	first, err := codec.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	second, err := codec.Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if first == second {
		t.Fatal("two tokens for the same subject must never be identical")
	}

	for _, tok := range []string{first, second} {
		if _, _, err := codec.Decode(tok); err != nil {
			t.Fatalf("Decode error: %v", err)
		}
	}
}

func TestDecode_Expired(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("secret"))

	tok, err := codec.Issue("alice", -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, _, err = codec.Decode(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestDecode_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenCodec([]byte("right-secret")).Issue("alice", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, _, err = NewTokenCodec([]byte("wrong-secret")).Decode(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestDecode_MalformedString(t *testing.T) {
	t.Parallel()

	_, _, err := NewTokenCodec([]byte("k")).Decode("not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestDecode_EmptySubject(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec([]byte("k"))
	tok, err := codec.Issue("", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, _, err = codec.Decode(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for empty subject, got %v", err)
	}
}
