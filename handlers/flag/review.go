package flag

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"modplus-bot/bot"
	"modplus-bot/handlers/mod"
	"modplus-bot/model"
	"modplus-bot/moderation"
	"modplus-bot/utils"
	flags_db "modplus-bot/utils/database/flags"

	"github.com/bwmarrin/discordgo"
)

// HandleReviewButton serves the review alert buttons. Custom id format:
// flag_review:<action>:<channel_id>:<message_id>.
func HandleReviewButton(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 4 {
		return
	}
	action, channelID, messageID := parts[1], parts[2], parts[3]

	if !reviewerAllowed(i, b) {
		utils.SendSimpleResponse(s, i, "You do not have permission to review flags.")
		return
	}

	record, err := flags_db.Get(b.GetDB(), i.GuildID, channelID, messageID)
	if errors.Is(err, flags_db.ErrNotFound) {
		utils.SendSimpleResponse(s, i, "No record exists for this flag anymore.")
		return
	}
	if err != nil {
		log.Printf("Failed to load flag record for message %s: %v", messageID, err)
		utils.SendSimpleResponse(s, i, "Failed to load the flag record.")
		return
	}

	switch action {
	case "clear":
		if record.Cleared {
			utils.SendSimpleResponse(s, i, "This flag was already cleared.")
			return
		}
		if err := flags_db.SetCleared(b.GetDB(), i.GuildID, channelID, messageID); err != nil {
			log.Printf("Failed to clear flag for message %s: %v", messageID, err)
			utils.SendSimpleResponse(s, i, "Failed to clear the flag.")
			return
		}
		utils.SendPublicResponse(s, i, fmt.Sprintf("Flag cleared by %s.", i.Member.User.Mention()))

	case "delete":
		if err := s.ChannelMessageDelete(channelID, messageID); err != nil {
			utils.SendSimpleResponse(s, i, "Could not delete the message; it may already be gone.")
			return
		}
		utils.SendPublicResponse(s, i, fmt.Sprintf("Flagged message deleted by %s.", i.Member.User.Mention()))

	case "reporters":
		reporters := record.Reporters()
		if len(reporters) == 0 {
			utils.SendSimpleResponse(s, i, "No reporters recorded.")
			return
		}
		mentions := make([]string, len(reporters))
		for idx, id := range reporters {
			mentions[idx] = fmt.Sprintf("<@%s>", id)
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Reported by %d members: %s", len(reporters), strings.Join(mentions, ", ")))

	case "content":
		content := record.Content
		if content == "" {
			content = "(no text content)"
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Original content:\n>>> %s", content))
	}
}

// HandleActionSelect serves the take-action select menu. Custom id
// format: flag_action:<channel_id>:<message_id>. The chosen action runs
// against the flagged message's author through the normal engine path.
func HandleActionSelect(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 {
		return
	}
	channelID, messageID := parts[1], parts[2]

	if !reviewerAllowed(i, b) {
		utils.SendSimpleResponse(s, i, "You do not have permission to review flags.")
		return
	}

	values := i.MessageComponentData().Values
	if len(values) != 1 || !model.ValidKind(values[0]) {
		return
	}
	kind := model.InfractionKind(values[0])

	record, err := flags_db.Get(b.GetDB(), i.GuildID, channelID, messageID)
	if errors.Is(err, flags_db.ErrNotFound) {
		utils.SendSimpleResponse(s, i, "No record exists for this flag anymore.")
		return
	}
	if err != nil {
		log.Printf("Failed to load flag record for message %s: %v", messageID, err)
		utils.SendSimpleResponse(s, i, "Failed to load the flag record.")
		return
	}

	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	engine := mod.NewEngine(s, b.GetDB(), b.GetConfig())
	inf, err := engine.Execute(moderation.ActionRequest{
		GuildID:  i.GuildID,
		UserID:   record.AuthorID,
		IssuerID: i.Member.User.ID,
		Kind:     kind,
		Reason:   fmt.Sprintf("Flagged message review (message %s)", messageID),
	})
	if err != nil {
		log.Printf("Flag review action %s failed for user %s: %v", kind, record.AuthorID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to record the infraction.")
		return
	}

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf(
		"%s issued **%s** `%s` against <@%s>.", i.Member.User.Mention(), kind, inf.InfractionID, record.AuthorID))
}

func reviewerAllowed(i *discordgo.InteractionCreate, b *bot.Bot) bool {
	cfg := b.GetConfig()
	level := utils.CheckPermission(i.Member, i.Member.User.ID, cfg.DeveloperUserIDs, cfg.ModRoleIDs[i.GuildID])
	return utils.CanModerate(level)
}
