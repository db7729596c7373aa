package infractions

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"modplus-bot/model"
	"modplus-bot/utils/database"

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

func addWarn(t *testing.T, db *sqlx.DB, id string, durationSeconds *int64, issuedAt time.Time) {
	t.Helper()
	err := Add(db, model.Infraction{
		InfractionID: id, GuildID: "g1", UserID: "u1",
		Kind: model.KindWarn, Reason: "reason " + id, IssuerID: "m1",
		IssuedAt: issuedAt.Unix(), DurationSeconds: durationSeconds,
	})
	if err != nil {
		t.Fatalf("Add(%s) failed: %v", id, err)
	}
}

func TestListByMemberInsertionOrder(t *testing.T) {
	db := testDB(t)
	// Deliberately non-chronological timestamps; insertion order still wins.
	now := time.Now()
	addWarn(t, db, "id3", nil, now)
	addWarn(t, db, "id1", nil, now.Add(-2*time.Hour))
	addWarn(t, db, "id2", nil, now.Add(-time.Hour))

	records, err := ListByMember(db, "g1", "u1")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	var got []string
	for _, rec := range records {
		got = append(got, rec.InfractionID)
	}
	want := []string{"id3", "id1", "id2"}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDeleteByID(t *testing.T) {
	db := testDB(t)
	addWarn(t, db, "id1", nil, time.Now())

	if err := DeleteByID(db, "g1", "u1", "id1"); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if _, err := GetByID(db, "g1", "u1", "id1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}

	// Deleting a nonexistent id reports not-found and leaves the rest alone.
	addWarn(t, db, "id2", nil, time.Now())
	if err := DeleteByID(db, "g1", "u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteByID(missing) = %v, want ErrNotFound", err)
	}
	records, err := ListByMember(db, "g1", "u1")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("ledger length = %d after failed delete, want 1", len(records))
	}
}

func TestCountNonExpired(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	hour := int64(3600)
	minute := int64(60)

	addWarn(t, db, "permanent", nil, now.Add(-24*time.Hour))
	addWarn(t, db, "live", &hour, now.Add(-30*time.Minute))
	addWarn(t, db, "expired", &minute, now.Add(-time.Hour))

	// A non-warn record must not count toward the warn total.
	err := Add(db, model.Infraction{
		InfractionID: "kick1", GuildID: "g1", UserID: "u1",
		Kind: model.KindKick, Reason: "x", IssuerID: "m1", IssuedAt: now.Unix(),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	count, err := CountNonExpired(db, "g1", "u1", model.KindWarn, now)
	if err != nil {
		t.Fatalf("CountNonExpired failed: %v", err)
	}
	if count != 2 {
		t.Errorf("warn count = %d, want 2 (permanent + live)", count)
	}

	// Unfiltered count still excludes the lapsed record.
	count, err = CountNonExpired(db, "g1", "u1", "", now)
	if err != nil {
		t.Fatalf("CountNonExpired failed: %v", err)
	}
	if count != 3 {
		t.Errorf("total count = %d, want 3", count)
	}
}

func TestClear(t *testing.T) {
	db := testDB(t)
	addWarn(t, db, "id1", nil, time.Now())
	addWarn(t, db, "id2", nil, time.Now())

	if err := Clear(db, "g1", "u1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	records, err := ListByMember(db, "g1", "u1")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ledger length = %d after clear, want 0", len(records))
	}
}

func TestAllTempBans(t *testing.T) {
	db := testDB(t)
	hour := int64(3600)
	for _, guild := range []string{"g1", "g2"} {
		err := Add(db, model.Infraction{
			InfractionID: "tb-" + guild, GuildID: guild, UserID: "u1",
			Kind: model.KindTempBan, Reason: "x", IssuerID: "m1",
			IssuedAt: time.Now().Unix(), DurationSeconds: &hour,
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	addWarn(t, db, "w1", nil, time.Now())

	bans, err := AllTempBans(db)
	if err != nil {
		t.Fatalf("AllTempBans failed: %v", err)
	}
	if len(bans) != 2 {
		t.Errorf("tempbans = %d, want 2", len(bans))
	}
}

func TestIssuerStats(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	for n := 0; n < 3; n++ {
		err := Add(db, model.Infraction{
			InfractionID: fmt.Sprintf("a%d", n), GuildID: "g1", UserID: "u1",
			Kind: model.KindWarn, Reason: "x", IssuerID: "mod-a", IssuedAt: now.Unix(),
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	err := Add(db, model.Infraction{
		InfractionID: "b0", GuildID: "g1", UserID: "u2",
		Kind: model.KindKick, Reason: "x", IssuerID: "mod-b", IssuedAt: now.Unix(),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Outside the window.
	err = Add(db, model.Infraction{
		InfractionID: "old", GuildID: "g1", UserID: "u3",
		Kind: model.KindWarn, Reason: "x", IssuerID: "mod-b", IssuedAt: now.Add(-48 * time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	stats, err := IssuerStats(db, "g1", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("IssuerStats failed: %v", err)
	}
	if stats["mod-a"] != 3 || stats["mod-b"] != 1 {
		t.Errorf("stats = %v, want mod-a:3 mod-b:1", stats)
	}
}
