package scanner

import (
	"log"
	"time"

	infractions_db "modplus-bot/utils/database/infractions"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// SweepExpiredTempBans scans all tempban infractions across all guilds
// and lifts the platform ban for those past their expiry. The current
// ban status is checked first so an already-lifted ban is not lifted
// again.
func SweepExpiredTempBans(s *discordgo.Session, db *sqlx.DB) {
	records, err := infractions_db.AllTempBans(db)
	if err != nil {
		log.Printf("Tempban sweep failed to list records: %v", err)
		return
	}

	now := time.Now()
	for _, record := range records {
		if !record.IsExpired(now) {
			continue
		}

		// Skip members who are no longer banned (manually unbanned, or
		// lifted by an earlier sweep).
		if _, err := s.GuildBan(record.GuildID, record.UserID); err != nil {
			continue
		}

		if err := s.GuildBanDelete(record.GuildID, record.UserID, discordgo.WithAuditLogReason("Tempban expired")); err != nil {
			log.Printf("Failed to lift expired tempban for user %s in guild %s: %v", record.UserID, record.GuildID, err)
			continue
		}
		log.Printf("Lifted expired tempban %s for user %s in guild %s", record.InfractionID, record.UserID, record.GuildID)
	}
}
