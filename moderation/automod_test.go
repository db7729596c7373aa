package moderation

import (
	"testing"

	"modplus-bot/model"
)

func TestParseActionDescriptor(t *testing.T) {
	tests := []struct {
		input    string
		wantKind model.InfractionKind
		wantSecs int64 // -1 means nil
		wantErr  bool
	}{
		{"kick", model.KindKick, -1, false},
		{"warn", model.KindWarn, -1, false},
		{"ban", model.KindBan, -1, false},
		{"mute", model.KindMute, -1, false},
		{"mute 600", model.KindMute, 600, false},
		{"tempban 3600", model.KindTempBan, 3600, false},
		{"tempban", "", -1, true},
		{"ban 3600", "", -1, true},
		{"warn 60", "", -1, true},
		{"tempban 0", "", -1, true},
		{"tempban -5", "", -1, true},
		{"tempban abc", "", -1, true},
		{"softban", "", -1, true},
		{"tempban 60 extra", "", -1, true},
		{"", "", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, secs, err := ParseActionDescriptor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseActionDescriptor(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseActionDescriptor(%q) failed: %v", tt.input, err)
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", kind, tt.wantKind)
			}
			if tt.wantSecs == -1 {
				if secs != nil {
					t.Errorf("duration = %d, want none", *secs)
				}
			} else if secs == nil || *secs != tt.wantSecs {
				t.Errorf("duration = %v, want %d", secs, tt.wantSecs)
			}
		})
	}
}
