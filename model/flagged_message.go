package model

import "encoding/json"

// FlaggedMessage is one community message marked for reviewer attention.
// Reporters is stored as a JSON array in insertion order.
type FlaggedMessage struct {
	GuildID        string `db:"guild_id"`
	ChannelID      string `db:"channel_id"`
	MessageID      string `db:"message_id"`
	Content        string `db:"content"`
	AuthorID       string `db:"author_id"`
	FlaggedBy      string `db:"flagged_by"`
	FlaggedAt      int64  `db:"flagged_at"`
	AlertMessageID string `db:"alert_message_id"`
	Cleared        bool   `db:"cleared"`
	ReportersJSON  string `db:"reporters"`
}

// Reporters decodes the reporter id list. A corrupt column yields an
// empty list rather than an error; the record itself stays usable.
func (f *FlaggedMessage) Reporters() []string {
	var ids []string
	if err := json.Unmarshal([]byte(f.ReportersJSON), &ids); err != nil {
		return nil
	}
	return ids
}

// HasReporter reports whether userID already reported this message.
func (f *FlaggedMessage) HasReporter(userID string) bool {
	for _, id := range f.Reporters() {
		if id == userID {
			return true
		}
	}
	return false
}

// EncodeReporters serializes a reporter id list for storage.
func EncodeReporters(ids []string) string {
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}
