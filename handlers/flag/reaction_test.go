package flag

import (
	"testing"
	"time"

	"modplus-bot/bot"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2"
)

func testReaction(userID, messageID string) *discordgo.MessageReactionAdd {
	return &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			GuildID:   "g1",
			ChannelID: "c1",
			MessageID: messageID,
			UserID:    userID,
		},
	}
}

func testBot(t *testing.T) *bot.Bot {
	t.Helper()
	cooldowns, err := lru.New[string, time.Time](16)
	if err != nil {
		t.Fatalf("failed to build cooldown cache: %v", err)
	}
	return &bot.Bot{FlagCooldowns: cooldowns}
}

func TestCrossedPingThresholdFiresOnce(t *testing.T) {
	const threshold = 2

	// Reporter counts grow one distinct reporter at a time. Only the
	// 1 -> 2 transition pings.
	pings := 0
	for prev := 0; prev < 4; prev++ {
		if crossedPingThreshold(threshold, prev, prev+1) {
			pings++
			if prev+1 != threshold {
				t.Errorf("pinged at count %d, want only at %d", prev+1, threshold)
			}
		}
	}
	if pings != 1 {
		t.Errorf("pinged %d times, want exactly 1", pings)
	}
}

func TestCrossedPingThresholdRepeatReporter(t *testing.T) {
	// A duplicate reporter leaves the count unchanged at the threshold;
	// that must not ping again.
	if crossedPingThreshold(2, 2, 2) {
		t.Error("unchanged count at threshold pinged")
	}
}

func TestCrossedPingThresholdDisabled(t *testing.T) {
	if crossedPingThreshold(0, 0, 1) {
		t.Error("pinged with threshold disabled")
	}
	if crossedPingThreshold(-1, 0, 5) {
		t.Error("pinged with negative threshold")
	}
}

func TestFlaggableAuthor(t *testing.T) {
	if flaggableAuthor(&discordgo.Message{}) {
		t.Error("message without an author accepted")
	}
	if flaggableAuthor(&discordgo.Message{Author: &discordgo.User{ID: "b1", Bot: true}}) {
		t.Error("bot-authored message accepted")
	}
	if !flaggableAuthor(&discordgo.Message{Author: &discordgo.User{ID: "u1"}}) {
		t.Error("regular message rejected")
	}
}

func TestOnCooldownSuppressesRapidRepeats(t *testing.T) {
	b := testBot(t)
	r := testReaction("u1", "m1")

	if onCooldown(b, r, 60) {
		t.Fatal("first report suppressed")
	}
	if !onCooldown(b, r, 60) {
		t.Error("rapid repeat report not suppressed")
	}
}

func TestOnCooldownIsPerUserPerMessage(t *testing.T) {
	b := testBot(t)

	if onCooldown(b, testReaction("u1", "m1"), 60) {
		t.Fatal("first report suppressed")
	}
	if onCooldown(b, testReaction("u2", "m1"), 60) {
		t.Error("different user suppressed")
	}
	if onCooldown(b, testReaction("u1", "m2"), 60) {
		t.Error("different message suppressed")
	}
}

func TestOnCooldownDisabledWhenZero(t *testing.T) {
	b := testBot(t)
	r := testReaction("u1", "m1")

	if onCooldown(b, r, 0) || onCooldown(b, r, 0) {
		t.Error("reports suppressed with cooldown disabled")
	}
}
