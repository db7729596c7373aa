package flag

import (
	"errors"
	"fmt"
	"log"
	"time"

	"modplus-bot/bot"
	"modplus-bot/model"
	flags_db "modplus-bot/utils/database/flags"
	settings_db "modplus-bot/utils/database/settings"

	"github.com/bwmarrin/discordgo"
)

// Component id prefixes for the review alert.
const (
	ReviewPrefix = "flag_review"
	ActionPrefix = "flag_action"
)

// HandleReactionAdd turns reactions with the configured flag emoji into
// review records. The first report creates the record and the alert;
// later distinct reporters grow the reporter set and may trigger the
// one-time reviewer ping.
func HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd, b *bot.Bot) {
	if r.GuildID == "" || r.UserID == s.State.User.ID {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	gs, err := settings_db.Get(b.GetDB(), r.GuildID)
	if err != nil {
		log.Printf("Failed to load settings for flag reaction in guild %s: %v", r.GuildID, err)
		return
	}
	// Flagging is off until both the emoji and the review channel are set.
	if gs.FlagEmoji == "" || gs.FlagChannelID == "" {
		return
	}
	if r.Emoji.Name != gs.FlagEmoji && r.Emoji.APIName() != gs.FlagEmoji {
		return
	}

	if onCooldown(b, r, gs.FlagCooldownSeconds) {
		return
	}

	record, err := flags_db.Get(b.GetDB(), r.GuildID, r.ChannelID, r.MessageID)
	if errors.Is(err, flags_db.ErrNotFound) {
		createFlag(s, b, r, gs)
		return
	}
	if err != nil {
		log.Printf("Failed to look up flag record for message %s: %v", r.MessageID, err)
		return
	}

	prev := len(record.Reporters())
	record, err = flags_db.AddReporter(b.GetDB(), r.GuildID, r.ChannelID, r.MessageID, r.UserID)
	if err != nil {
		log.Printf("Failed to add reporter to message %s: %v", r.MessageID, err)
		return
	}
	curr := len(record.Reporters())

	// A cleared record keeps accumulating reporters but never pings.
	if record.Cleared {
		return
	}

	if gs.FlagModRoleID != "" && crossedPingThreshold(gs.FlagPingThreshold, prev, curr) {
		_, err := s.ChannelMessageSend(gs.FlagChannelID, fmt.Sprintf(
			"<@&%s> message https://discord.com/channels/%s/%s/%s has been flagged by %d members.",
			gs.FlagModRoleID, r.GuildID, r.ChannelID, r.MessageID, curr))
		if err != nil {
			log.Printf("Failed to ping reviewers for message %s: %v", r.MessageID, err)
		}
	}
}

// flaggableAuthor filters out messages with no resolvable author
// (webhook or system messages) and messages posted by bots.
func flaggableAuthor(msg *discordgo.Message) bool {
	return msg.Author != nil && !msg.Author.Bot
}

// crossedPingThreshold reports whether the reporter count moved from
// below the threshold to at or above it. Reviewers are pinged only on
// the report that crosses; earlier and later reports stay silent.
func crossedPingThreshold(threshold, prev, curr int) bool {
	return threshold > 0 && prev < threshold && curr >= threshold
}

// onCooldown reports and records a user's report attempt. The cache is
// loss-tolerant; an evicted entry just lets a report through early.
func onCooldown(b *bot.Bot, r *discordgo.MessageReactionAdd, cooldownSeconds int) bool {
	if cooldownSeconds <= 0 {
		return false
	}
	key := fmt.Sprintf("%s:%s:%s:%s", r.GuildID, r.ChannelID, r.MessageID, r.UserID)
	now := time.Now()
	if last, ok := b.FlagCooldowns.Get(key); ok && now.Sub(last) < time.Duration(cooldownSeconds)*time.Second {
		return true
	}
	b.FlagCooldowns.Add(key, now)
	return false
}

func createFlag(s *discordgo.Session, b *bot.Bot, r *discordgo.MessageReactionAdd, gs *model.GuildSettings) {
	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		log.Printf("Failed to fetch flagged message %s: %v", r.MessageID, err)
		return
	}
	if !flaggableAuthor(msg) {
		return
	}

	record := model.FlaggedMessage{
		GuildID:       r.GuildID,
		ChannelID:     r.ChannelID,
		MessageID:     r.MessageID,
		Content:       msg.Content,
		AuthorID:      msg.Author.ID,
		FlaggedBy:     r.UserID,
		FlaggedAt:     time.Now().Unix(),
		Cleared:       false,
		ReportersJSON: model.EncodeReporters([]string{r.UserID}),
	}
	if err := flags_db.Create(b.GetDB(), record); err != nil {
		log.Printf("Failed to create flag record for message %s: %v", r.MessageID, err)
		return
	}

	alert, err := s.ChannelMessageSendComplex(gs.FlagChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{buildAlertEmbed(&record)},
		Components: buildReviewComponents(r.ChannelID, r.MessageID),
	})
	if err != nil {
		log.Printf("Failed to post flag alert for message %s: %v", r.MessageID, err)
		return
	}
	if err := flags_db.SetAlertMessage(b.GetDB(), r.GuildID, r.ChannelID, r.MessageID, alert.ID); err != nil {
		log.Printf("Failed to store alert message id for message %s: %v", r.MessageID, err)
	}
}

func buildAlertEmbed(record *model.FlaggedMessage) *discordgo.MessageEmbed {
	content := record.Content
	if content == "" {
		content = "(no text content)"
	}
	if runes := []rune(content); len(runes) > 1024 {
		content = string(runes[:1021]) + "..."
	}
	return &discordgo.MessageEmbed{
		Title: "Message flagged for review",
		Color: 0xE74C3C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: fmt.Sprintf("<@%s>", record.AuthorID), Inline: true},
			{Name: "Flagged by", Value: fmt.Sprintf("<@%s>", record.FlaggedBy), Inline: true},
			{Name: "Message", Value: fmt.Sprintf("https://discord.com/channels/%s/%s/%s", record.GuildID, record.ChannelID, record.MessageID)},
			{Name: "Content", Value: content},
		},
		Timestamp: time.Unix(record.FlaggedAt, 0).Format(time.RFC3339),
	}
}

func buildReviewComponents(channelID, messageID string) []discordgo.MessageComponent {
	suffix := ":" + channelID + ":" + messageID
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Clear", Style: discordgo.SuccessButton, CustomID: ReviewPrefix + ":clear" + suffix},
			discordgo.Button{Label: "Delete message", Style: discordgo.DangerButton, CustomID: ReviewPrefix + ":delete" + suffix},
			discordgo.Button{Label: "Reporters", Style: discordgo.SecondaryButton, CustomID: ReviewPrefix + ":reporters" + suffix},
			discordgo.Button{Label: "Content", Style: discordgo.SecondaryButton, CustomID: ReviewPrefix + ":content" + suffix},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    ActionPrefix + suffix,
				Placeholder: "Take action against the author",
				Options: []discordgo.SelectMenuOption{
					{Label: "Warn", Value: "warn"},
					{Label: "Mute", Value: "mute"},
					{Label: "Kick", Value: "kick"},
					{Label: "Ban", Value: "ban"},
				},
			},
		}},
	}
}
