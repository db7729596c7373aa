package tasks

import (
	"fmt"
	"log"
	"sort"
	"time"

	infractions_db "modplus-bot/utils/database/infractions"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// PostActivityReport posts a per-issuer summary of moderation activity
// over the given window to the log channel. Best-effort: a missing
// channel or a failed send is logged and skipped.
func PostActivityReport(s *discordgo.Session, db *sqlx.DB, channelID string, window time.Duration) {
	if channelID == "" {
		return
	}

	since := time.Now().Add(-window)
	var fields []*discordgo.MessageEmbedField

	for _, guild := range s.State.Guilds {
		stats, err := infractions_db.IssuerStats(db, guild.ID, since)
		if err != nil {
			log.Printf("Activity report failed for guild %s: %v", guild.ID, err)
			continue
		}
		if len(stats) == 0 {
			continue
		}

		issuers := make([]string, 0, len(stats))
		for issuerID := range stats {
			issuers = append(issuers, issuerID)
		}
		sort.Slice(issuers, func(i, j int) bool { return stats[issuers[i]] > stats[issuers[j]] })

		value := ""
		for _, issuerID := range issuers {
			value += fmt.Sprintf("<@%s>: %d\n", issuerID, stats[issuerID])
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  guild.Name,
			Value: value,
		})
	}

	if len(fields) == 0 {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Moderation activity, last %s", window),
		Color:     0x5865F2,
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to post activity report: %v", err)
	}
}
