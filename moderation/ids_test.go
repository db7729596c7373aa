package moderation

import (
	"testing"
	"time"
)

func TestNewInfractionIDFormat(t *testing.T) {
	id := NewInfractionID(time.Now())
	if len(id) != 8 {
		t.Fatalf("expected 8-character id, got %q (%d)", id, len(id))
	}
	for _, r := range id {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Fatalf("id %q contains non-hex character %q", id, r)
		}
	}
}

func TestNewInfractionIDUniqueSameInstant(t *testing.T) {
	at := time.Now()
	seen := make(map[string]bool)
	for n := 0; n < 1000; n++ {
		id := NewInfractionID(at)
		if seen[id] {
			t.Fatalf("duplicate id %q after %d issuances at the same instant", id, n)
		}
		seen[id] = true
	}
}
