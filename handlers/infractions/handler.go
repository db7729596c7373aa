package infractions

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"modplus-bot/model"
	"modplus-bot/utils"
	infractions_db "modplus-bot/utils/database/infractions"

	"github.com/bwmarrin/discordgo"
)

const pageSize = 5

// PaginationPrefix routes the list pagination buttons to this package.
const PaginationPrefix = "infractions_page"

// HandleInfractionsCommand dispatches the /infractions subcommands.
func HandleInfractionsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
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
	var targetUser *discordgo.User
	var infractionID string
	for _, opt := range sub.Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "id":
			infractionID = opt.StringValue()
		}
	}
	if targetUser == nil {
		utils.SendFollowUpError(s, i.Interaction, "Missing user option.")
		return
	}

	switch sub.Name {
	case "list":
		handleList(s, i, b, targetUser.ID, 1)
	case "show":
		handleShow(s, i, b, targetUser, infractionID)
	case "delete":
		handleDelete(s, i, b, targetUser.ID, infractionID, level)
	case "clear":
		handleClear(s, i, b, targetUser)
	}
}

func handleList(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, userID string, page int) {
	records, err := infractions_db.ListByMember(b.GetDB(), i.GuildID, userID)
	if err != nil {
		log.Printf("Failed to list infractions for user %s: %v", userID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the infraction list.")
		return
	}
	if len(records) == 0 {
		utils.SendFollowUp(s, i.Interaction, "This member has no infractions.")
		return
	}

	embed, components := buildListPage(records, userID, page)
	utils.SendFollowUpEmbed(s, i.Interaction, embed, components)
}

// HandlePagination serves the Previous/Next buttons on a list. The
// custom id carries the target page and the member whose list it is.
func HandlePagination(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 {
		return
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil || page < 1 {
		return
	}
	userID := parts[2]

	records, err := infractions_db.ListByMember(b.GetDB(), i.GuildID, userID)
	if err != nil {
		log.Printf("Failed to list infractions for pagination: %v", err)
		return
	}

	embed, components := buildListPage(records, userID, page)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Printf("Failed to update infraction list page: %v", err)
	}
}

func buildListPage(records []model.Infraction, userID string, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	totalPages := (len(records) + pageSize - 1) / pageSize
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	now := time.Now()
	var sb strings.Builder
	for _, rec := range records[start:end] {
		line := fmt.Sprintf("`%s` **%s** <t:%d:R>", rec.InfractionID, rec.Kind, rec.IssuedAt)
		if rec.IsExpired(now) {
			line += " (expired)"
		}
		sb.WriteString(line)
		sb.WriteString(fmt.Sprintf("\n> %s\n", rec.Reason))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Infractions for <@%s>", userID),
		Description: sb.String(),
		Color:       0x3498DB,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d · %d total", page, totalPages, len(records)),
		},
	}
	components := utils.CreatePaginationComponents(page, totalPages, PaginationPrefix, userID)
	return embed, components
}

func handleShow(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, target *discordgo.User, infractionID string) {
	rec, err := infractions_db.GetByID(b.GetDB(), i.GuildID, target.ID, infractionID)
	if errors.Is(err, infractions_db.ErrNotFound) {
		utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("No infraction `%s` found for that member.", infractionID))
		return
	}
	if err != nil {
		log.Printf("Failed to get infraction %s: %v", infractionID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the infraction.")
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: fmt.Sprintf("%s (`%s`)", target.Mention(), target.ID), Inline: true},
		{Name: "Type", Value: string(rec.Kind), Inline: true},
		{Name: "Issuer", Value: fmt.Sprintf("<@%s>", rec.IssuerID), Inline: true},
		{Name: "Reason", Value: rec.Reason},
		{Name: "Issued", Value: fmt.Sprintf("<t:%d:F>", rec.IssuedAt), Inline: true},
	}
	if exp, ok := rec.ExpiresAt(); ok {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Expires", Value: fmt.Sprintf("<t:%d:F>", exp.Unix()), Inline: true,
		})
	}
	utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Infraction `%s`", rec.InfractionID),
		Color:  0x3498DB,
		Fields: fields,
	}, nil)
}

func handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, userID, infractionID, level string) {
	db := b.GetDB()

	// Moderators may only delete infractions they issued themselves.
	// Admins may delete any.
	rec, err := infractions_db.GetByID(db, i.GuildID, userID, infractionID)
	if errors.Is(err, infractions_db.ErrNotFound) {
		utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("No infraction `%s` found for that member.", infractionID))
		return
	}
	if err != nil {
		log.Printf("Failed to get infraction %s: %v", infractionID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the infraction.")
		return
	}
	if !utils.IsAdmin(level) && rec.IssuerID != i.Member.User.ID {
		utils.SendFollowUpError(s, i.Interaction, "Only the issuer or an administrator can delete this infraction.")
		return
	}

	if err := infractions_db.DeleteByID(db, i.GuildID, userID, infractionID); err != nil {
		log.Printf("Failed to delete infraction %s: %v", infractionID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to delete the infraction.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Deleted infraction `%s`.", infractionID))
}

func handleClear(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, target *discordgo.User) {
	records, err := infractions_db.ListByMember(b.GetDB(), i.GuildID, target.ID)
	if err != nil {
		log.Printf("Failed to list infractions before clear: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the infraction list.")
		return
	}
	if len(records) == 0 {
		utils.SendFollowUp(s, i.Interaction, "This member has no infractions.")
		return
	}

	if err := infractions_db.Clear(b.GetDB(), i.GuildID, target.ID); err != nil {
		log.Printf("Failed to clear infractions for user %s: %v", target.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to clear the infractions.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Cleared %d infractions for %s.", len(records), target.Mention()))
}
