package templating

import (
	"strings"
	"testing"

	"modplus-bot/model"
)

func sampleInfraction(durationSeconds *int64) *model.Infraction {
	return &model.Infraction{
		InfractionID: "deadbeef", GuildID: "g1", UserID: "violator-id",
		Kind: model.KindWarn, Reason: "spamming", IssuerID: "issuer-id",
		IssuedAt: 1700000000, DurationSeconds: durationSeconds,
	}
}

func TestRenderSubstitutesVariables(t *testing.T) {
	vars := NoticeVars(sampleInfraction(nil), "Test Server", "", false)
	out, err := Render("{{ type }} {{ id }} on {{ violator }} by {{ issuer }}: {{ reason }} ({{ duration }})", vars)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "warn deadbeef on violator-id by issuer-id: spamming (Permanent)"
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

func TestRenderTimedDuration(t *testing.T) {
	secs := int64(5400)
	vars := NoticeVars(sampleInfraction(&secs), "Test Server", "", false)
	out, err := Render("{{ duration }}", vars)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "1h30m0s" {
		t.Errorf("duration = %q, want 1h30m0s", out)
	}
}

func TestRenderConditionalInvite(t *testing.T) {
	template := "{% if invite %}Appeal here: {{ invite }}{% else %}No appeal available.{% endif %}"

	vars := NoticeVars(sampleInfraction(nil), "Test Server", "https://discord.gg/abc", false)
	out, err := Render(template, vars)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "Appeal here: https://discord.gg/abc" {
		t.Errorf("out = %q", out)
	}

	vars = NoticeVars(sampleInfraction(nil), "Test Server", "", false)
	out, err = Render(template, vars)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "No appeal available." {
		t.Errorf("out = %q", out)
	}
}

func TestRenderSyntaxError(t *testing.T) {
	vars := NoticeVars(sampleInfraction(nil), "Test Server", "", false)
	if _, err := Render("{% if %}broken", vars); err == nil {
		t.Error("Render of broken template succeeded, want error")
	}
}

func TestRenderTruncates(t *testing.T) {
	vars := NoticeVars(sampleInfraction(nil), "Test Server", "", false)
	long := strings.Repeat("あ", MaxNoticeLength+500)
	out, err := Render(long, vars)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := len([]rune(out)); got != MaxNoticeLength {
		t.Errorf("rendered length = %d runes, want %d", got, MaxNoticeLength)
	}
}

func TestDefaultTemplatesRender(t *testing.T) {
	secs := int64(600)
	vars := NoticeVars(sampleInfraction(&secs), "Test Server", "https://discord.gg/abc", true)
	for name, template := range map[string]string{
		"log":       model.DefaultLogMessage,
		"dm":        model.DefaultDMMessage,
		"channel":   model.DefaultChannelMessage,
		"watchlist": model.DefaultWatchlistMessage,
	} {
		if _, err := Render(template, vars); err != nil {
			t.Errorf("default %s template failed to render: %v", name, err)
		}
	}
}
