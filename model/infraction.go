package model

import "time"

// InfractionKind is the kind of moderation action an infraction records.
type InfractionKind string

const (
	KindWarn    InfractionKind = "warn"
	KindMute    InfractionKind = "mute"
	KindKick    InfractionKind = "kick"
	KindBan     InfractionKind = "ban"
	KindTempBan InfractionKind = "tempban"
)

// ValidKind reports whether s names a known infraction kind.
func ValidKind(s string) bool {
	switch InfractionKind(s) {
	case KindWarn, KindMute, KindKick, KindBan, KindTempBan:
		return true
	}
	return false
}

// Infraction represents a single moderation record in the database.
// Records are immutable once written; edits are delete + re-append.
type Infraction struct {
	InfractionID    string         `db:"infraction_id"`
	GuildID         string         `db:"guild_id"`
	UserID          string         `db:"user_id"`
	Kind            InfractionKind `db:"kind"`
	Reason          string         `db:"reason"`
	IssuerID        string         `db:"issuer_id"`
	IssuedAt        int64          `db:"issued_at"` // unix seconds
	DurationSeconds *int64         `db:"duration_seconds"`
}

// Duration returns the infraction's duration, or false for permanent ones.
func (inf *Infraction) Duration() (time.Duration, bool) {
	if inf.DurationSeconds == nil {
		return 0, false
	}
	return time.Duration(*inf.DurationSeconds) * time.Second, true
}

// ExpiresAt returns when the infraction lapses, or false if it never does.
func (inf *Infraction) ExpiresAt() (time.Time, bool) {
	d, ok := inf.Duration()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(inf.IssuedAt, 0).Add(d), true
}

// IsExpired reports whether the infraction has lapsed. Permanent
// infractions never expire.
func (inf *Infraction) IsExpired(now time.Time) bool {
	exp, ok := inf.ExpiresAt()
	if !ok {
		return false
	}
	return exp.Before(now)
}
