package sealer

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	s, err := New(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("failed to build sealer: %v", err)
	}
	return s
}

func TestSealParseRoundTrip(t *testing.T) {
	s := newTestSealer(t)

	token, err := s.SealCancelToken("64f000000000000000000001", "64f000000000000000000002")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	arenaID, bookingID, err := s.ParseCancelToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if arenaID != "64f000000000000000000001" || bookingID != "64f000000000000000000002" {
		t.Errorf("round trip mismatch: %s / %s", arenaID, bookingID)
	}
}

func TestParse_RejectsTamperedToken(t *testing.T) {
	s := newTestSealer(t)

	token, err := s.SealCancelToken("a1", "b2")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	tampered := token[:len(token)-2] + "zz"
	if _, _, err := s.ParseCancelToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	s := newTestSealer(t)

	for _, token := range []string{"", "short", "!!!not-base64!!!"} {
		if _, _, err := s.ParseCancelToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestNew_RejectsBadKey(t *testing.T) {
	if _, err := New("not base64"); err == nil {
		t.Error("expected error for invalid base64 key")
	}
	if _, err := New(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("expected error for wrong key length")
	}
}
