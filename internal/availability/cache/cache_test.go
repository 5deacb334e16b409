package cache

import (
	"testing"
	"time"
)

func TestScope(t *testing.T) {
	if got := scope(""); got != "all" {
		t.Errorf("empty arena should scope to %q, got %q", "all", got)
	}
	if got := scope("abc123"); got != "abc123" {
		t.Errorf("expected arena scope abc123, got %q", got)
	}
}

func TestKeyDerivation(t *testing.T) {
	from := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	t.Run("version key per scope", func(t *testing.T) {
		if got := keyVersion("abc123"); got != "availability:ver:abc123" {
			t.Errorf("unexpected version key: %q", got)
		}
		if got := keyVersion(""); got != "availability:ver:all" {
			t.Errorf("unexpected all-arenas version key: %q", got)
		}
	})

	t.Run("view key embeds version", func(t *testing.T) {
		v1 := keyView("abc123", 1, from, to)
		v2 := keyView("abc123", 2, from, to)
		if v1 == v2 {
			t.Error("bumping the version must orphan the old view key")
		}
	})

	t.Run("view key distinguishes windows", func(t *testing.T) {
		a := keyView("abc123", 1, from, to)
		b := keyView("abc123", 1, from, to.Add(time.Hour))
		if a == b {
			t.Error("different windows must map to different keys")
		}
	})

	t.Run("local times normalize to UTC", func(t *testing.T) {
		loc := time.FixedZone("BST", 3600)
		a := keyView("abc123", 1, from, to)
		b := keyView("abc123", 1, from.In(loc), to.In(loc))
		if a != b {
			t.Errorf("same instant in another zone must map to the same key: %q vs %q", a, b)
		}
	})
}
