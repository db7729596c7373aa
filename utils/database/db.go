package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the moderation database and ensures all tables exist.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS infractions (
			infraction_id TEXT NOT NULL,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			reason TEXT NOT NULL,
			issuer_id TEXT NOT NULL,
			issued_at INTEGER NOT NULL,
			duration_seconds INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_infractions_member
			ON infractions (guild_id, user_id);`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			reason TEXT NOT NULL,
			added_by TEXT NOT NULL,
			added_at INTEGER NOT NULL,
			expires_at INTEGER,
			PRIMARY KEY (guild_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS guild_settings (
			guild_id TEXT NOT NULL PRIMARY KEY,
			log_channel_id TEXT DEFAULT '',
			appeal_guild_id TEXT DEFAULT '',
			log_message TEXT DEFAULT '',
			dm_message TEXT DEFAULT '',
			channel_message TEXT DEFAULT '',
			watchlist_channel_id TEXT DEFAULT '',
			watchlist_notify INTEGER DEFAULT 0,
			watchlist_message TEXT DEFAULT '',
			flag_emoji TEXT DEFAULT '',
			flag_channel_id TEXT DEFAULT '',
			flag_ping_threshold INTEGER DEFAULT 0,
			flag_mod_role_id TEXT DEFAULT '',
			flag_cooldown_seconds INTEGER DEFAULT 60
		);`,
		`CREATE TABLE IF NOT EXISTS reason_shorthands (
			guild_id TEXT NOT NULL,
			shorthand TEXT NOT NULL,
			replacement TEXT NOT NULL,
			PRIMARY KEY (guild_id, shorthand)
		);`,
		`CREATE TABLE IF NOT EXISTS automod_rules (
			guild_id TEXT NOT NULL,
			warn_count INTEGER NOT NULL,
			action TEXT NOT NULL,
			duration_seconds INTEGER,
			PRIMARY KEY (guild_id, warn_count)
		);`,
		`CREATE TABLE IF NOT EXISTS flagged_messages (
			guild_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			message_id TEXT NOT NULL,
			content TEXT NOT NULL,
			author_id TEXT NOT NULL,
			flagged_by TEXT NOT NULL,
			flagged_at INTEGER NOT NULL,
			alert_message_id TEXT DEFAULT '',
			cleared INTEGER DEFAULT 0,
			reporters TEXT DEFAULT '[]',
			PRIMARY KEY (guild_id, channel_id, message_id)
		);`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}
