package model

import "time"

// WatchlistEntry flags a member for heightened review interest.
// A member has at most one entry at a time; setting overwrites.
type WatchlistEntry struct {
	GuildID   string `db:"guild_id"`
	UserID    string `db:"user_id"`
	Reason    string `db:"reason"`
	AddedBy   string `db:"added_by"`
	AddedAt   int64  `db:"added_at"`
	ExpiresAt *int64 `db:"expires_at"` // unix seconds, nil = no expiry
}

// IsExpired reports whether the entry's optional expiry has passed.
func (e *WatchlistEntry) IsExpired(now time.Time) bool {
	return e.ExpiresAt != nil && time.Unix(*e.ExpiresAt, 0).Before(now)
}
