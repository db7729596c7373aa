package mod

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// discordPlatform applies moderation consequences through the Discord
// API. All methods are best-effort from the engine's point of view.
type discordPlatform struct {
	session *discordgo.Session
}

func (p *discordPlatform) TimeoutMember(guildID, userID string, until time.Time, reason string) error {
	return p.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason))
}

func (p *discordPlatform) KickMember(guildID, userID, reason string) error {
	return p.session.GuildMemberDelete(guildID, userID, discordgo.WithAuditLogReason(reason))
}

func (p *discordPlatform) BanMember(guildID, userID, reason string) error {
	return p.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}
