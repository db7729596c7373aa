package flags

import (
	"errors"
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

func createFlag(t *testing.T, db *sqlx.DB) {
	t.Helper()
	err := Create(db, model.FlaggedMessage{
		GuildID: "g1", ChannelID: "c1", MessageID: "m1",
		Content: "suspicious text", AuthorID: "author", FlaggedBy: "userA",
		FlaggedAt: time.Now().Unix(), ReportersJSON: model.EncodeReporters([]string{"userA"}),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	db := testDB(t)
	createFlag(t, db)

	record, err := Get(db, "g1", "c1", "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.Content != "suspicious text" || record.AuthorID != "author" {
		t.Errorf("record = %+v", record)
	}
	reporters := record.Reporters()
	if len(reporters) != 1 || reporters[0] != "userA" {
		t.Errorf("reporters = %v, want [userA]", reporters)
	}

	if _, err := Get(db, "g1", "c1", "other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(other) = %v, want ErrNotFound", err)
	}
}

func TestAddReporterGrowsSetOnce(t *testing.T) {
	db := testDB(t)
	createFlag(t, db)

	record, err := AddReporter(db, "g1", "c1", "m1", "userB")
	if err != nil {
		t.Fatalf("AddReporter failed: %v", err)
	}
	if got := record.Reporters(); len(got) != 2 {
		t.Fatalf("reporters = %v, want 2 entries", got)
	}

	// Repeat reports from the same user do not grow the set.
	record, err = AddReporter(db, "g1", "c1", "m1", "userB")
	if err != nil {
		t.Fatalf("repeat AddReporter failed: %v", err)
	}
	got := record.Reporters()
	if len(got) != 2 {
		t.Fatalf("reporters = %v after repeat report, want 2 entries", got)
	}
	// Insertion order is preserved.
	if got[0] != "userA" || got[1] != "userB" {
		t.Errorf("reporter order = %v, want [userA userB]", got)
	}
}

func TestSetClearedIsTerminal(t *testing.T) {
	db := testDB(t)
	createFlag(t, db)

	if err := SetCleared(db, "g1", "c1", "m1"); err != nil {
		t.Fatalf("SetCleared failed: %v", err)
	}
	record, err := Get(db, "g1", "c1", "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !record.Cleared {
		t.Error("record not marked cleared")
	}

	// Reporters still accumulate on a cleared record.
	record, err = AddReporter(db, "g1", "c1", "m1", "userC")
	if err != nil {
		t.Fatalf("AddReporter on cleared record failed: %v", err)
	}
	if len(record.Reporters()) != 2 {
		t.Errorf("reporters = %v, want 2 entries", record.Reporters())
	}

	if err := SetCleared(db, "g1", "c1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCleared(missing) = %v, want ErrNotFound", err)
	}
}

func TestSetAlertMessage(t *testing.T) {
	db := testDB(t)
	createFlag(t, db)

	if err := SetAlertMessage(db, "g1", "c1", "m1", "alert-42"); err != nil {
		t.Fatalf("SetAlertMessage failed: %v", err)
	}
	record, err := Get(db, "g1", "c1", "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if record.AlertMessageID != "alert-42" {
		t.Errorf("alert message id = %q, want alert-42", record.AlertMessageID)
	}
}
