package settings

import (
	"database/sql"
	"errors"
	"fmt"

	"modplus-bot/model"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a shorthand or automod rule does not exist.
var ErrNotFound = errors.New("setting not found")

// Get retrieves a guild's settings row, creating an empty one with
// defaults on first access.
func Get(db *sqlx.DB, guildID string) (*model.GuildSettings, error) {
	var gs model.GuildSettings
	err := db.Get(&gs, "SELECT * FROM guild_settings WHERE guild_id = ?", guildID)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := db.Exec("INSERT INTO guild_settings (guild_id) VALUES (?)", guildID); err != nil {
			return nil, fmt.Errorf("failed to create settings for guild %s: %w", guildID, err)
		}
		return Get(db, guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for guild %s: %w", guildID, err)
	}
	return &gs, nil
}

// Update writes back a full settings row.
func Update(db *sqlx.DB, gs *model.GuildSettings) error {
	query := `UPDATE guild_settings SET
				log_channel_id = :log_channel_id,
				appeal_guild_id = :appeal_guild_id,
				log_message = :log_message,
				dm_message = :dm_message,
				channel_message = :channel_message,
				watchlist_channel_id = :watchlist_channel_id,
				watchlist_notify = :watchlist_notify,
				watchlist_message = :watchlist_message,
				flag_emoji = :flag_emoji,
				flag_channel_id = :flag_channel_id,
				flag_ping_threshold = :flag_ping_threshold,
				flag_mod_role_id = :flag_mod_role_id,
				flag_cooldown_seconds = :flag_cooldown_seconds
			  WHERE guild_id = :guild_id`
	if _, err := db.NamedExec(query, gs); err != nil {
		return fmt.Errorf("failed to update settings for guild %s: %w", gs.GuildID, err)
	}
	return nil
}

// AddShorthand adds a reason shorthand. Duplicate keys are rejected so
// the caller can report the existing mapping.
func AddShorthand(db *sqlx.DB, guildID, shorthand, replacement string) error {
	query := "INSERT INTO reason_shorthands (guild_id, shorthand, replacement) VALUES (?, ?, ?)"
	if _, err := db.Exec(query, guildID, shorthand, replacement); err != nil {
		return fmt.Errorf("failed to add shorthand %q for guild %s: %w", shorthand, guildID, err)
	}
	return nil
}

// GetShorthand retrieves a single shorthand mapping, or ErrNotFound.
func GetShorthand(db *sqlx.DB, guildID, shorthand string) (*model.ReasonShorthand, error) {
	var sh model.ReasonShorthand
	query := "SELECT * FROM reason_shorthands WHERE guild_id = ? AND shorthand = ?"
	err := db.Get(&sh, query, guildID, shorthand)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shorthand %q for guild %s: %w", shorthand, guildID, err)
	}
	return &sh, nil
}

// RemoveShorthand deletes a shorthand, or reports ErrNotFound.
func RemoveShorthand(db *sqlx.DB, guildID, shorthand string) error {
	result, err := db.Exec("DELETE FROM reason_shorthands WHERE guild_id = ? AND shorthand = ?", guildID, shorthand)
	if err != nil {
		return fmt.Errorf("failed to remove shorthand %q for guild %s: %w", shorthand, guildID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for shorthand %q: %w", shorthand, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListShorthands returns a guild's shorthands in insertion order. This
// is also the order expansion applies them in, so it stays stable.
func ListShorthands(db *sqlx.DB, guildID string) ([]model.ReasonShorthand, error) {
	var shs []model.ReasonShorthand
	query := "SELECT * FROM reason_shorthands WHERE guild_id = ? ORDER BY rowid"
	if err := db.Select(&shs, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to list shorthands for guild %s: %w", guildID, err)
	}
	return shs, nil
}

// SetAutomodRule inserts or overwrites the rule for an exact warn count.
func SetAutomodRule(db *sqlx.DB, rule model.AutomodRule) error {
	query := `INSERT INTO automod_rules (guild_id, warn_count, action, duration_seconds)
			  VALUES (:guild_id, :warn_count, :action, :duration_seconds)
			  ON CONFLICT (guild_id, warn_count) DO UPDATE SET
				action = excluded.action,
				duration_seconds = excluded.duration_seconds`
	if _, err := db.NamedExec(query, rule); err != nil {
		return fmt.Errorf("failed to set automod rule at count %d for guild %s: %w", rule.WarnCount, rule.GuildID, err)
	}
	return nil
}

// GetAutomodRule retrieves the rule matching an exact warn count.
// Absence of an exact match means no consequence fires.
func GetAutomodRule(db *sqlx.DB, guildID string, warnCount int) (*model.AutomodRule, error) {
	var rule model.AutomodRule
	query := "SELECT * FROM automod_rules WHERE guild_id = ? AND warn_count = ?"
	err := db.Get(&rule, query, guildID, warnCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get automod rule at count %d for guild %s: %w", warnCount, guildID, err)
	}
	return &rule, nil
}

// RemoveAutomodRule deletes the rule for a warn count, or ErrNotFound.
func RemoveAutomodRule(db *sqlx.DB, guildID string, warnCount int) error {
	result, err := db.Exec("DELETE FROM automod_rules WHERE guild_id = ? AND warn_count = ?", guildID, warnCount)
	if err != nil {
		return fmt.Errorf("failed to remove automod rule at count %d for guild %s: %w", warnCount, guildID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for automod rule at count %d: %w", warnCount, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAutomodRules returns a guild's rules ordered by warn count.
func ListAutomodRules(db *sqlx.DB, guildID string) ([]model.AutomodRule, error) {
	var rules []model.AutomodRule
	query := "SELECT * FROM automod_rules WHERE guild_id = ? ORDER BY warn_count"
	if err := db.Select(&rules, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to list automod rules for guild %s: %w", guildID, err)
	}
	return rules, nil
}

// ClearAutomodRules removes every automod rule a guild has configured.
func ClearAutomodRules(db *sqlx.DB, guildID string) error {
	if _, err := db.Exec("DELETE FROM automod_rules WHERE guild_id = ?", guildID); err != nil {
		return fmt.Errorf("failed to clear automod rules for guild %s: %w", guildID, err)
	}
	return nil
}
