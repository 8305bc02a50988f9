package authn

import (
	"testing"
	"time"
)

func TestStateStoreKeepsRelativeTargets(t *testing.T) {
	s := newStateStore()
	s.put("st", "portfolio.html?tab=2", time.Now().Add(time.Minute))

	got, ok := s.consume("st")
	if !ok || got != "portfolio.html?tab=2" {
		t.Errorf("consume = %q, %v", got, ok)
	}
}

func TestStateStoreDropsForeignTargets(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"absolute https", "https://evil.example/phish"},
		{"absolute http", "http://evil.example"},
		{"protocol relative", "//evil.example/phish"},
		{"javascript scheme", "javascript:alert(1)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStateStore()
			s.put("st", tc.target, time.Now().Add(time.Minute))

			got, ok := s.consume("st")
			if !ok {
				t.Fatal("state must still be consumable")
			}
			if got != "" {
				t.Errorf("redirect target = %q, want empty fallback", got)
			}
		})
	}
}

func TestStateStoreSingleUseAndExpiry(t *testing.T) {
	s := newStateStore()
	s.put("st", "index.html", time.Now().Add(time.Minute))

	if _, ok := s.consume("st"); !ok {
		t.Fatal("first consume must succeed")
	}
	if _, ok := s.consume("st"); ok {
		t.Error("state must be single use")
	}

	s.put("old", "index.html", time.Now().Add(-time.Minute))
	if _, ok := s.consume("old"); ok {
		t.Error("expired state must be rejected")
	}
}
