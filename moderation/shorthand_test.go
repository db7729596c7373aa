package moderation

import (
	"testing"

	"modplus-bot/model"
)

func TestExpandReason(t *testing.T) {
	shorthands := []model.ReasonShorthand{
		{Shorthand: "r1", Replacement: "Rule 1 (no spam)"},
		{Shorthand: "adv", Replacement: "unsolicited advertising"},
	}

	tests := []struct {
		name   string
		reason string
		want   string
	}{
		{"no shorthand", "just a plain reason", "just a plain reason"},
		{"single", "broke r1", "broke Rule 1 (no spam)"},
		{"multiple", "r1 and adv", "Rule 1 (no spam) and unsolicited advertising"},
		{"repeated occurrences", "r1 r1", "Rule 1 (no spam) Rule 1 (no spam)"},
		{"substring match", "star1", "staRule 1 (no spam)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandReason(tt.reason, shorthands); got != tt.want {
				t.Errorf("ExpandReason(%q) = %q, want %q", tt.reason, got, tt.want)
			}
		})
	}
}

func TestExpandReasonInsertionOrder(t *testing.T) {
	// An earlier mapping's output can feed a later mapping's input.
	// That is a documented consequence of sequential application.
	shorthands := []model.ReasonShorthand{
		{Shorthand: "a", Replacement: "b"},
		{Shorthand: "b", Replacement: "c"},
	}
	if got := ExpandReason("a", shorthands); got != "c" {
		t.Errorf("ExpandReason(%q) = %q, want %q", "a", got, "c")
	}

	// Reversed order must not chain.
	reversed := []model.ReasonShorthand{
		{Shorthand: "b", Replacement: "c"},
		{Shorthand: "a", Replacement: "b"},
	}
	if got := ExpandReason("a", reversed); got != "b" {
		t.Errorf("ExpandReason(%q) = %q, want %q", "a", got, "b")
	}
}
