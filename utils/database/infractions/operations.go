package infractions

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modplus-bot/model"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no infraction matches the given id.
var ErrNotFound = errors.New("infraction not found")

// Add persists a new infraction record. The caller supplies a fully
// constructed record, id included; a failed insert propagates.
func Add(db *sqlx.DB, record model.Infraction) error {
	query := `INSERT INTO infractions (infraction_id, guild_id, user_id, kind, reason, issuer_id, issued_at, duration_seconds)
			  VALUES (:infraction_id, :guild_id, :user_id, :kind, :reason, :issuer_id, :issued_at, :duration_seconds)`

	if _, err := db.NamedExec(query, record); err != nil {
		return fmt.Errorf("failed to insert infraction for user %s in guild %s: %w", record.UserID, record.GuildID, err)
	}
	return nil
}

// ListByMember retrieves a member's infractions in chronological
// (insertion) order.
func ListByMember(db *sqlx.DB, guildID, userID string) ([]model.Infraction, error) {
	var records []model.Infraction
	query := "SELECT * FROM infractions WHERE guild_id = ? AND user_id = ? ORDER BY rowid"
	if err := db.Select(&records, query, guildID, userID); err != nil {
		return nil, fmt.Errorf("failed to list infractions for user %s in guild %s: %w", userID, guildID, err)
	}
	return records, nil
}

// GetByID retrieves a single infraction, or ErrNotFound.
func GetByID(db *sqlx.DB, guildID, userID, infractionID string) (*model.Infraction, error) {
	var record model.Infraction
	query := "SELECT * FROM infractions WHERE guild_id = ? AND user_id = ? AND infraction_id = ?"
	err := db.Get(&record, query, guildID, userID, infractionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction %s: %w", infractionID, err)
	}
	return &record, nil
}

// DeleteByID removes a single infraction, or reports ErrNotFound
// without touching the ledger.
func DeleteByID(db *sqlx.DB, guildID, userID, infractionID string) error {
	query := "DELETE FROM infractions WHERE guild_id = ? AND user_id = ? AND infraction_id = ?"
	result, err := db.Exec(query, guildID, userID, infractionID)
	if err != nil {
		return fmt.Errorf("failed to delete infraction %s: %w", infractionID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for infraction %s: %w", infractionID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every infraction a member has.
func Clear(db *sqlx.DB, guildID, userID string) error {
	query := "DELETE FROM infractions WHERE guild_id = ? AND user_id = ?"
	if _, err := db.Exec(query, guildID, userID); err != nil {
		return fmt.Errorf("failed to clear infractions for user %s in guild %s: %w", userID, guildID, err)
	}
	return nil
}

// CountNonExpired counts a member's infractions that have not lapsed,
// optionally filtered by kind. Permanent infractions never lapse.
func CountNonExpired(db *sqlx.DB, guildID, userID string, kind model.InfractionKind, now time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM infractions
			  WHERE guild_id = ? AND user_id = ?
			  AND (duration_seconds IS NULL OR issued_at + duration_seconds > ?)`
	args := []interface{}{guildID, userID, now.Unix()}

	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	if err := db.Get(&count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count infractions for user %s in guild %s: %w", userID, guildID, err)
	}
	return count, nil
}

// AllTempBans retrieves every tempban infraction across all guilds,
// for the expiry sweep.
func AllTempBans(db *sqlx.DB) ([]model.Infraction, error) {
	var records []model.Infraction
	query := "SELECT * FROM infractions WHERE kind = ? ORDER BY rowid"
	if err := db.Select(&records, query, model.KindTempBan); err != nil {
		return nil, fmt.Errorf("failed to list tempban infractions: %w", err)
	}
	return records, nil
}

// CountByGuild returns the total number of recorded infractions in a
// guild, used by the activity report and botinfo.
func CountByGuild(db *sqlx.DB, guildID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM infractions WHERE guild_id = ?"
	if err := db.Get(&count, query, guildID); err != nil {
		return 0, fmt.Errorf("failed to count infractions for guild %s: %w", guildID, err)
	}
	return count, nil
}

// IssuerStats returns per-issuer infraction counts for a guild since
// the given time, most active first.
func IssuerStats(db *sqlx.DB, guildID string, since time.Time) (map[string]int, error) {
	query := `SELECT issuer_id, COUNT(*) as count FROM infractions
			  WHERE guild_id = ? AND issued_at >= ?
			  GROUP BY issuer_id ORDER BY count DESC`
	rows, err := db.Query(query, guildID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get issuer stats for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var issuerID string
		var count int
		if err := rows.Scan(&issuerID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan issuer stats row: %w", err)
		}
		stats[issuerID] = count
	}
	return stats, nil
}
