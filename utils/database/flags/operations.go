package flags

import (
	"database/sql"
	"errors"
	"fmt"

	"modplus-bot/model"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no flagged-message record exists.
var ErrNotFound = errors.New("flagged message not found")

// Create stores the first report of a message, reporters = [flagged_by].
func Create(db *sqlx.DB, record model.FlaggedMessage) error {
	query := `INSERT INTO flagged_messages (guild_id, channel_id, message_id, content, author_id, flagged_by, flagged_at, alert_message_id, cleared, reporters)
			  VALUES (:guild_id, :channel_id, :message_id, :content, :author_id, :flagged_by, :flagged_at, :alert_message_id, :cleared, :reporters)`
	if _, err := db.NamedExec(query, record); err != nil {
		return fmt.Errorf("failed to create flagged message record for message %s: %w", record.MessageID, err)
	}
	return nil
}

// Get retrieves a flagged-message record, or ErrNotFound.
func Get(db *sqlx.DB, guildID, channelID, messageID string) (*model.FlaggedMessage, error) {
	var record model.FlaggedMessage
	query := "SELECT * FROM flagged_messages WHERE guild_id = ? AND channel_id = ? AND message_id = ?"
	err := db.Get(&record, query, guildID, channelID, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flagged message record for message %s: %w", messageID, err)
	}
	return &record, nil
}

// AddReporter appends a reporter to the record if not already present
// and returns the updated record.
func AddReporter(db *sqlx.DB, guildID, channelID, messageID, userID string) (*model.FlaggedMessage, error) {
	record, err := Get(db, guildID, channelID, messageID)
	if err != nil {
		return nil, err
	}
	if record.HasReporter(userID) {
		return record, nil
	}

	reporters := append(record.Reporters(), userID)
	record.ReportersJSON = model.EncodeReporters(reporters)

	query := "UPDATE flagged_messages SET reporters = ? WHERE guild_id = ? AND channel_id = ? AND message_id = ?"
	if _, err := db.Exec(query, record.ReportersJSON, guildID, channelID, messageID); err != nil {
		return nil, fmt.Errorf("failed to add reporter to message %s: %w", messageID, err)
	}
	return record, nil
}

// SetAlertMessage stores the id of the posted review alert.
func SetAlertMessage(db *sqlx.DB, guildID, channelID, messageID, alertMessageID string) error {
	query := "UPDATE flagged_messages SET alert_message_id = ? WHERE guild_id = ? AND channel_id = ? AND message_id = ?"
	if _, err := db.Exec(query, alertMessageID, guildID, channelID, messageID); err != nil {
		return fmt.Errorf("failed to set alert message for message %s: %w", messageID, err)
	}
	return nil
}

// SetCleared marks a record as handled by a reviewer. Clearing is
// terminal; there is no way back to the flagged state.
func SetCleared(db *sqlx.DB, guildID, channelID, messageID string) error {
	query := "UPDATE flagged_messages SET cleared = 1 WHERE guild_id = ? AND channel_id = ? AND message_id = ?"
	result, err := db.Exec(query, guildID, channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to clear flagged message %s: %w", messageID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for flagged message %s: %w", messageID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
