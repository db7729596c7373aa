package watchlist

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modplus-bot/model"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a member has no watchlist entry.
var ErrNotFound = errors.New("watchlist entry not found")

// Set adds or overwrites a member's watchlist entry.
func Set(db *sqlx.DB, entry model.WatchlistEntry) error {
	query := `INSERT INTO watchlist (guild_id, user_id, reason, added_by, added_at, expires_at)
			  VALUES (:guild_id, :user_id, :reason, :added_by, :added_at, :expires_at)
			  ON CONFLICT (guild_id, user_id) DO UPDATE SET
				reason = excluded.reason,
				added_by = excluded.added_by,
				added_at = excluded.added_at,
				expires_at = excluded.expires_at`
	if _, err := db.NamedExec(query, entry); err != nil {
		return fmt.Errorf("failed to set watchlist entry for user %s in guild %s: %w", entry.UserID, entry.GuildID, err)
	}
	return nil
}

// Get retrieves a member's entry. An entry past its expiry is evicted
// as a side effect and reported as ErrNotFound (lazy expiry).
func Get(db *sqlx.DB, guildID, userID string, now time.Time) (*model.WatchlistEntry, error) {
	var entry model.WatchlistEntry
	query := "SELECT * FROM watchlist WHERE guild_id = ? AND user_id = ?"
	err := db.Get(&entry, query, guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist entry for user %s in guild %s: %w", userID, guildID, err)
	}
	if entry.IsExpired(now) {
		if err := Remove(db, guildID, userID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return &entry, nil
}

// Remove deletes a member's entry, or reports ErrNotFound.
func Remove(db *sqlx.DB, guildID, userID string) error {
	result, err := db.Exec("DELETE FROM watchlist WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry for user %s in guild %s: %w", userID, guildID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for watchlist entry of user %s: %w", userID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a guild's live entries, evicting expired ones on the way.
// Filtering out members who have left the guild is the caller's job,
// since membership is a platform fact.
func List(db *sqlx.DB, guildID string, now time.Time) ([]model.WatchlistEntry, error) {
	var entries []model.WatchlistEntry
	query := "SELECT * FROM watchlist WHERE guild_id = ? ORDER BY added_at"
	if err := db.Select(&entries, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to list watchlist for guild %s: %w", guildID, err)
	}

	live := entries[:0]
	for _, entry := range entries {
		if entry.IsExpired(now) {
			if err := Remove(db, guildID, entry.UserID); err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			continue
		}
		live = append(live, entry)
	}
	return live, nil
}
