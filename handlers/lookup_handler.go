package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"modplus-bot/model"
	"modplus-bot/utils"
	infractions_db "modplus-bot/utils/database/infractions"
	watchlist_db "modplus-bot/utils/database/watchlist"

	"github.com/bwmarrin/discordgo"
)

// LookupHandler summarizes a member's full moderation record: ledger
// totals by kind, live warn count, and watchlist status.
func LookupHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	cfg := b.GetConfig()
	level := utils.CheckPermission(i.Member, i.Member.User.ID, cfg.DeveloperUserIDs, cfg.ModRoleIDs[i.GuildID])
	if !utils.IsAdmin(level) {
		utils.SendFollowUpError(s, i.Interaction, "You do not have permission to use this command.")
		return
	}

	var target *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		utils.SendFollowUpError(s, i.Interaction, "Missing user option.")
		return
	}

	db := b.GetDB()
	records, err := infractions_db.ListByMember(db, i.GuildID, target.ID)
	if err != nil {
		log.Printf("Failed to list infractions for lookup of user %s: %v", target.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the moderation record.")
		return
	}

	now := time.Now()
	byKind := make(map[model.InfractionKind]int)
	var lastIssued int64
	for _, rec := range records {
		byKind[rec.Kind]++
		if rec.IssuedAt > lastIssued {
			lastIssued = rec.IssuedAt
		}
	}

	liveWarns, err := infractions_db.CountNonExpired(db, i.GuildID, target.ID, model.KindWarn, now)
	if err != nil {
		log.Printf("Failed to count warns for lookup of user %s: %v", target.ID, err)
	}

	totals := "none"
	if len(records) > 0 {
		totals = ""
		for _, kind := range []model.InfractionKind{model.KindWarn, model.KindMute, model.KindKick, model.KindBan, model.KindTempBan} {
			if n := byKind[kind]; n > 0 {
				totals += fmt.Sprintf("%s: %d\n", kind, n)
			}
		}
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: fmt.Sprintf("%s (`%s`)", target.Mention(), target.ID)},
		{Name: "Infractions", Value: totals, Inline: true},
		{Name: "Active warnings", Value: fmt.Sprintf("%d", liveWarns), Inline: true},
	}
	if lastIssued > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Last infraction", Value: fmt.Sprintf("<t:%d:R>", lastIssued), Inline: true,
		})
	}

	entry, err := watchlist_db.Get(db, i.GuildID, target.ID, now)
	switch {
	case err == nil:
		value := fmt.Sprintf("Added by <@%s> <t:%d:R>\n> %s", entry.AddedBy, entry.AddedAt, entry.Reason)
		if entry.ExpiresAt != nil {
			value += fmt.Sprintf("\nUntil <t:%d:f>", *entry.ExpiresAt)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Watchlist", Value: value})
	case errors.Is(err, watchlist_db.ErrNotFound):
		// not watched
	default:
		log.Printf("Failed to check watchlist for lookup of user %s: %v", target.ID, err)
	}

	utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
		Title:  "Moderation record",
		Color:  0x3498DB,
		Fields: fields,
	}, nil)
}
