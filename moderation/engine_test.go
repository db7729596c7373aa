package moderation

import (
	"fmt"
	"testing"
	"time"

	"modplus-bot/model"
	"modplus-bot/utils/database"
	"modplus-bot/utils/database/infractions"
	"modplus-bot/utils/database/settings"
	"modplus-bot/utils/database/watchlist"

	"github.com/jmoiron/sqlx"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Init(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type recordingPlatform struct {
	timeouts []string
	kicks    []string
	bans     []string
}

func (p *recordingPlatform) TimeoutMember(guildID, userID string, until time.Time, reason string) error {
	p.timeouts = append(p.timeouts, userID)
	return nil
}

func (p *recordingPlatform) KickMember(guildID, userID, reason string) error {
	p.kicks = append(p.kicks, userID)
	return nil
}

func (p *recordingPlatform) BanMember(guildID, userID, reason string) error {
	p.bans = append(p.bans, userID)
	return nil
}

type recordingNotifier struct {
	dmsOpen bool

	logged    []model.Infraction
	dms       []model.Infraction
	channel   []string
	watchlist []model.Infraction
}

func (n *recordingNotifier) LogInfraction(inf *model.Infraction) {
	n.logged = append(n.logged, *inf)
}

func (n *recordingNotifier) DMViolator(inf *model.Infraction) bool {
	n.dms = append(n.dms, *inf)
	return n.dmsOpen
}

func (n *recordingNotifier) ChannelNotice(channelID string, inf *model.Infraction, dmsOpen bool) {
	n.channel = append(n.channel, channelID)
}

func (n *recordingNotifier) WatchlistNotice(inf *model.Infraction, dmsOpen bool) {
	n.watchlist = append(n.watchlist, *inf)
}

func TestExecuteDefaultReason(t *testing.T) {
	db := testDB(t)
	e := &Engine{DB: db}

	inf, err := e.Execute(ActionRequest{GuildID: "g1", UserID: "u1", IssuerID: "m1", Kind: model.KindWarn})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if inf.Reason != "No reason provided." {
		t.Errorf("reason = %q, want %q", inf.Reason, "No reason provided.")
	}
}

func TestExecuteBanWithDurationBecomesTempban(t *testing.T) {
	db := testDB(t)
	platform := &recordingPlatform{}
	e := &Engine{DB: db, Platform: platform}

	d := time.Hour
	inf, err := e.Execute(ActionRequest{
		GuildID: "g1", UserID: "u1", IssuerID: "m1",
		Kind: model.KindBan, Duration: &d,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if inf.Kind != model.KindTempBan {
		t.Errorf("kind = %s, want %s", inf.Kind, model.KindTempBan)
	}
	if inf.DurationSeconds == nil || *inf.DurationSeconds != 3600 {
		t.Errorf("duration = %v, want 3600", inf.DurationSeconds)
	}
	if len(platform.bans) != 1 {
		t.Errorf("bans applied = %d, want 1", len(platform.bans))
	}
}

func TestExecuteExpandsShorthands(t *testing.T) {
	db := testDB(t)
	if err := settings.AddShorthand(db, "g1", "r1", "Rule 1 (no spam)"); err != nil {
		t.Fatalf("AddShorthand failed: %v", err)
	}
	e := &Engine{DB: db}

	inf, err := e.Execute(ActionRequest{
		GuildID: "g1", UserID: "u1", IssuerID: "m1",
		Kind: model.KindWarn, Reason: "broke r1 twice",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if inf.Reason != "broke Rule 1 (no spam) twice" {
		t.Errorf("reason = %q", inf.Reason)
	}
}

func TestExecuteFanOutOrderAndWatchlist(t *testing.T) {
	db := testDB(t)
	notifier := &recordingNotifier{dmsOpen: true}
	e := &Engine{DB: db, Notifier: notifier}

	if err := watchlist.Set(db, model.WatchlistEntry{
		GuildID: "g1", UserID: "u1", Reason: "repeat offender",
		AddedBy: "m1", AddedAt: time.Now().Unix(),
	}); err != nil {
		t.Fatalf("watchlist.Set failed: %v", err)
	}

	_, err := e.Execute(ActionRequest{
		GuildID: "g1", UserID: "u1", IssuerID: "m1",
		Kind: model.KindWarn, ChannelID: "c1",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(notifier.logged) != 1 || len(notifier.dms) != 1 || len(notifier.watchlist) != 1 {
		t.Fatalf("fan-out counts = log %d, dm %d, watchlist %d; want 1 each",
			len(notifier.logged), len(notifier.dms), len(notifier.watchlist))
	}
	if len(notifier.channel) != 1 || notifier.channel[0] != "c1" {
		t.Errorf("channel notices = %v, want [c1]", notifier.channel)
	}

	// An unwatched member gets no watchlist notice.
	_, err = e.Execute(ActionRequest{GuildID: "g1", UserID: "u2", IssuerID: "m1", Kind: model.KindWarn})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(notifier.watchlist) != 1 {
		t.Errorf("watchlist notices = %d after unwatched member, want 1", len(notifier.watchlist))
	}
}

func warnTimes(t *testing.T, e *Engine, guildID, userID string, n int) {
	t.Helper()
	for k := 0; k < n; k++ {
		if _, err := e.Execute(ActionRequest{
			GuildID: guildID, UserID: userID, IssuerID: "m1",
			Kind: model.KindWarn, Reason: fmt.Sprintf("warn %d", k+1),
		}); err != nil {
			t.Fatalf("Execute failed on warn %d: %v", k+1, err)
		}
	}
}

func TestAutomodSingleThreshold(t *testing.T) {
	db := testDB(t)
	if err := settings.SetAutomodRule(db, model.AutomodRule{GuildID: "g1", WarnCount: 3, Action: model.KindWarn}); err != nil {
		t.Fatalf("SetAutomodRule failed: %v", err)
	}
	e := &Engine{DB: db}

	// Two warns stay under the threshold.
	warnTimes(t, e, "g1", "u1", 2)
	count, err := infractions.CountNonExpired(db, "g1", "u1", model.KindWarn, time.Now())
	if err != nil {
		t.Fatalf("CountNonExpired failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d before threshold, want 2", count)
	}

	// The third warn matches the rule and synthesizes exactly one more.
	// Four is unconfigured, so the chain stops there.
	warnTimes(t, e, "g1", "u1", 1)
	count, err = infractions.CountNonExpired(db, "g1", "u1", model.KindWarn, time.Now())
	if err != nil {
		t.Fatalf("CountNonExpired failed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d after threshold, want 4", count)
	}

	records, err := infractions.ListByMember(db, "g1", "u1")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	last := records[len(records)-1]
	if last.Reason != "Automod action for 3 infractions" {
		t.Errorf("synthesized reason = %q", last.Reason)
	}
}

func TestAutomodConsecutiveThresholdsCascade(t *testing.T) {
	db := testDB(t)
	for _, count := range []int{3, 4} {
		if err := settings.SetAutomodRule(db, model.AutomodRule{GuildID: "g1", WarnCount: count, Action: model.KindWarn}); err != nil {
			t.Fatalf("SetAutomodRule failed: %v", err)
		}
	}
	e := &Engine{DB: db}

	// Reaching 3 chains: 3 fires (count 4), 4 fires (count 5), 5 is
	// unconfigured, stop. Exact chain length matters.
	warnTimes(t, e, "g1", "u1", 3)
	count, err := infractions.CountNonExpired(db, "g1", "u1", model.KindWarn, time.Now())
	if err != nil {
		t.Fatalf("CountNonExpired failed: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d after cascade, want 5", count)
	}
}

func TestAutomodDepthCapBoundsFeedbackLoop(t *testing.T) {
	db := testDB(t)
	// A non-warn consequence leaves the warn count unchanged, so the
	// rule keeps matching on every re-evaluation. The depth cap is the
	// only thing that stops it.
	if err := settings.SetAutomodRule(db, model.AutomodRule{GuildID: "g1", WarnCount: 3, Action: model.KindKick}); err != nil {
		t.Fatalf("SetAutomodRule failed: %v", err)
	}
	platform := &recordingPlatform{}
	e := &Engine{DB: db, Platform: platform, MaxAutomodDepth: 3}

	warnTimes(t, e, "g1", "u1", 3)

	if len(platform.kicks) != 3 {
		t.Errorf("kicks = %d, want 3 (depth cap)", len(platform.kicks))
	}
}

func TestAutomodRuleWithDuration(t *testing.T) {
	db := testDB(t)
	secs := int64(600)
	if err := settings.SetAutomodRule(db, model.AutomodRule{
		GuildID: "g1", WarnCount: 2, Action: model.KindMute, DurationSeconds: &secs,
	}); err != nil {
		t.Fatalf("SetAutomodRule failed: %v", err)
	}
	platform := &recordingPlatform{}
	e := &Engine{DB: db, Platform: platform}

	warnTimes(t, e, "g1", "u1", 2)

	if len(platform.timeouts) != 1 {
		t.Fatalf("timeouts = %d, want 1", len(platform.timeouts))
	}
	records, err := infractions.ListByMember(db, "g1", "u1")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	last := records[len(records)-1]
	if last.Kind != model.KindMute {
		t.Errorf("synthesized kind = %s, want mute", last.Kind)
	}
	if last.DurationSeconds == nil || *last.DurationSeconds != 600 {
		t.Errorf("synthesized duration = %v, want 600", last.DurationSeconds)
	}
}

func TestAutomodIgnoresExpiredWarns(t *testing.T) {
	db := testDB(t)
	if err := settings.SetAutomodRule(db, model.AutomodRule{GuildID: "g1", WarnCount: 1, Action: model.KindWarn}); err != nil {
		t.Fatalf("SetAutomodRule failed: %v", err)
	}
	// Seed an expired warn directly; it must not count.
	expired := int64(60)
	if err := infractions.Add(db, model.Infraction{
		InfractionID: "aaaa0000", GuildID: "g1", UserID: "u1",
		Kind: model.KindWarn, Reason: "old", IssuerID: "m1",
		IssuedAt: time.Now().Add(-time.Hour).Unix(), DurationSeconds: &expired,
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	e := &Engine{DB: db}
	warnTimes(t, e, "g1", "u1", 1)

	// The live count after the fresh warn is 1, so the rule fires and
	// synthesizes one more. Had the expired warn counted, the count
	// would have been 2 and nothing would fire.
	records, err := infractions.ListByMember(db, "g1", "u1")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("ledger length = %d, want 3 (expired seed + warn + synthesized)", len(records))
	}
}
