package mod

import (
	"log"

	"modplus-bot/model"
	"modplus-bot/utils"
	settings_db "modplus-bot/utils/database/settings"
	"modplus-bot/utils/templating"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// discordNotifier renders the guild's notice templates and delivers
// them. Every failure here is logged and swallowed: notices are
// best-effort side effects of an already-committed ledger append.
type discordNotifier struct {
	session *discordgo.Session
	db      *sqlx.DB
}

func (n *discordNotifier) guildName(guildID string) string {
	if guild, err := n.session.State.Guild(guildID); err == nil {
		return guild.Name
	}
	return guildID
}

func (n *discordNotifier) settings(guildID string) *model.GuildSettings {
	gs, err := settings_db.Get(n.db, guildID)
	if err != nil {
		log.Printf("Failed to load settings for guild %s: %v", guildID, err)
		return nil
	}
	return gs
}

func (n *discordNotifier) render(template, fallback string, inf *model.Infraction, invite string, dmsOpen bool) (string, bool) {
	if template == "" {
		template = fallback
	}
	body, err := templating.Render(template, templating.NoticeVars(inf, n.guildName(inf.GuildID), invite, dmsOpen))
	if err != nil {
		log.Printf("Failed to render notice for infraction %s: %v", inf.InfractionID, err)
		return "", false
	}
	if body == "" {
		return "", false
	}
	return body, true
}

// LogInfraction sends the configured log notice to the guild's log
// channel. A missing channel skips the notice and nothing else.
func (n *discordNotifier) LogInfraction(inf *model.Infraction) {
	gs := n.settings(inf.GuildID)
	if gs == nil || gs.LogChannelID == "" {
		return
	}
	body, ok := n.render(gs.LogMessage, model.DefaultLogMessage, inf, "", false)
	if !ok {
		return
	}
	if _, err := n.session.ChannelMessageSend(gs.LogChannelID, body); err != nil {
		log.Printf("Failed to send log notice for infraction %s: %v", inf.InfractionID, err)
	}
}

// DMViolator DMs the violator and reports whether their DMs were open.
// Ban, tempban and kick notices carry a one-time appeal invite when an
// appeal server is configured.
func (n *discordNotifier) DMViolator(inf *model.Infraction) bool {
	gs := n.settings(inf.GuildID)
	if gs == nil {
		return false
	}

	invite := ""
	switch inf.Kind {
	case model.KindBan, model.KindTempBan, model.KindKick:
		invite = n.appealInvite(gs, inf.UserID)
	}

	body, ok := n.render(gs.DMMessage, model.DefaultDMMessage, inf, invite, false)
	if !ok {
		return false
	}
	if err := utils.SendPrivateMessage(n.session, inf.UserID, body); err != nil {
		log.Printf("DM delivery failed for infraction %s: %v", inf.InfractionID, err)
		return false
	}
	return true
}

// appealInvite creates a one-time, 48h invite to the appeal server.
// Any missing piece (no appeal server, server deleted, no channels)
// silently yields no invite.
func (n *discordNotifier) appealInvite(gs *model.GuildSettings, userID string) string {
	if gs.AppealGuildID == "" {
		return ""
	}
	channels, err := n.session.GuildChannels(gs.AppealGuildID)
	if err != nil || len(channels) == 0 {
		return ""
	}
	var channelID string
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			channelID = ch.ID
			break
		}
	}
	if channelID == "" {
		return ""
	}
	invite, err := n.session.ChannelInviteCreate(channelID, discordgo.Invite{
		MaxUses: 1,
		MaxAge:  48 * 60 * 60,
	})
	if err != nil {
		log.Printf("Failed to create appeal invite for user %s: %v", userID, err)
		return ""
	}
	return "https://discord.gg/" + invite.Code
}

// ChannelNotice posts the configured notice in the channel the command
// was issued from.
func (n *discordNotifier) ChannelNotice(channelID string, inf *model.Infraction, dmsOpen bool) {
	gs := n.settings(inf.GuildID)
	if gs == nil {
		return
	}
	body, ok := n.render(gs.ChannelMessage, model.DefaultChannelMessage, inf, "", dmsOpen)
	if !ok {
		return
	}
	if _, err := n.session.ChannelMessageSend(channelID, body); err != nil {
		log.Printf("Failed to send channel notice for infraction %s: %v", inf.InfractionID, err)
	}
}

// WatchlistNotice alerts the watchlist channel that a watched member
// received a new infraction.
func (n *discordNotifier) WatchlistNotice(inf *model.Infraction, dmsOpen bool) {
	gs := n.settings(inf.GuildID)
	if gs == nil || !gs.WatchlistNotify || gs.WatchlistChannelID == "" {
		return
	}
	body, ok := n.render(gs.WatchlistMessage, model.DefaultWatchlistMessage, inf, "", dmsOpen)
	if !ok {
		return
	}
	if _, err := n.session.ChannelMessageSend(gs.WatchlistChannelID, body); err != nil {
		log.Printf("Failed to send watchlist notice for infraction %s: %v", inf.InfractionID, err)
	}
}
