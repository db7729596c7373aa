package watchlist

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"modplus-bot/model"
	"modplus-bot/utils"
	watchlist_db "modplus-bot/utils/database/watchlist"

	"github.com/bwmarrin/discordgo"
)

// HandleWatchlistCommand dispatches the /watchlist subcommands.
func HandleWatchlistCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	cfg := b.GetConfig()
	level := utils.CheckPermission(i.Member, i.Member.User.ID, cfg.DeveloperUserIDs, cfg.ModRoleIDs[i.GuildID])
	if !utils.CanModerate(level) {
		utils.SendFollowUpError(s, i.Interaction, "You do not have permission to use this command.")
		return
	}

	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "add":
		handleAdd(s, i, b, sub.Options)
	case "remove":
		handleRemove(s, i, b, sub.Options)
	case "clear":
		handleClear(s, i, b)
	case "list":
		handleList(s, i, b)
	}
}

func handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var target *discordgo.User
	var reason string
	var expiresAt *int64
	for _, opt := range opts {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		case "duration":
			d, err := utils.ParseDuration(opt.StringValue())
			if err != nil {
				utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("Invalid duration %q.", opt.StringValue()))
				return
			}
			exp := time.Now().Add(d).Unix()
			expiresAt = &exp
		}
	}
	if target == nil {
		utils.SendFollowUpError(s, i.Interaction, "Missing user option.")
		return
	}
	if reason == "" {
		reason = "No reason provided."
	}

	entry := model.WatchlistEntry{
		GuildID:   i.GuildID,
		UserID:    target.ID,
		Reason:    reason,
		AddedBy:   i.Member.User.ID,
		AddedAt:   time.Now().Unix(),
		ExpiresAt: expiresAt,
	}
	if err := watchlist_db.Set(b.GetDB(), entry); err != nil {
		log.Printf("Failed to add watchlist entry for user %s: %v", target.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to update the watchlist.")
		return
	}

	msg := fmt.Sprintf("Added %s to the watchlist.", target.Mention())
	if expiresAt != nil {
		msg = fmt.Sprintf("Added %s to the watchlist until <t:%d:F>.", target.Mention(), *expiresAt)
	}
	utils.SendFollowUp(s, i.Interaction, msg)
}

func handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var target *discordgo.User
	for _, opt := range opts {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		utils.SendFollowUpError(s, i.Interaction, "Missing user option.")
		return
	}

	err := watchlist_db.Remove(b.GetDB(), i.GuildID, target.ID)
	if errors.Is(err, watchlist_db.ErrNotFound) {
		utils.SendFollowUpError(s, i.Interaction, "That member is not on the watchlist.")
		return
	}
	if err != nil {
		log.Printf("Failed to remove watchlist entry for user %s: %v", target.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to update the watchlist.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Removed %s from the watchlist.", target.Mention()))
}

func handleClear(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	entries, err := watchlist_db.List(b.GetDB(), i.GuildID, time.Now())
	if err != nil {
		log.Printf("Failed to list watchlist for clear: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the watchlist.")
		return
	}
	if len(entries) == 0 {
		utils.SendFollowUp(s, i.Interaction, "The watchlist is already empty.")
		return
	}

	removed := 0
	for _, entry := range entries {
		err := watchlist_db.Remove(b.GetDB(), i.GuildID, entry.UserID)
		if err != nil && !errors.Is(err, watchlist_db.ErrNotFound) {
			log.Printf("Failed to remove watchlist entry for user %s during clear: %v", entry.UserID, err)
			continue
		}
		removed++
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Cleared %d watchlist entries.", removed))
}

func handleList(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	entries, err := watchlist_db.List(b.GetDB(), i.GuildID, time.Now())
	if err != nil {
		log.Printf("Failed to list watchlist: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the watchlist.")
		return
	}

	// Entries for members who have since left the guild are skipped but
	// kept in the database.
	var sb strings.Builder
	shown := 0
	for _, entry := range entries {
		if _, err := s.GuildMember(i.GuildID, entry.UserID); err != nil {
			continue
		}
		line := fmt.Sprintf("<@%s> added by <@%s> <t:%d:R>", entry.UserID, entry.AddedBy, entry.AddedAt)
		if entry.ExpiresAt != nil {
			line += fmt.Sprintf(", until <t:%d:f>", *entry.ExpiresAt)
		}
		sb.WriteString(line)
		sb.WriteString(fmt.Sprintf("\n> %s\n", entry.Reason))
		shown++
	}
	if shown == 0 {
		utils.SendFollowUp(s, i.Interaction, "No watched members are currently in this server.")
		return
	}

	utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
		Title:       "Watchlist",
		Description: sb.String(),
		Color:       0x9B59B6,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d watched members", shown)},
	}, nil)
}
