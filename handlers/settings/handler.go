package settings

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"modplus-bot/bot"
	"modplus-bot/model"
	"modplus-bot/moderation"
	"modplus-bot/utils"
	settings_db "modplus-bot/utils/database/settings"

	"github.com/bwmarrin/discordgo"
)

// ConfirmPrefix routes automod overwrite confirmation buttons here.
const ConfirmPrefix = "automod_confirm"

// HandleModSetCommand dispatches the /modset subcommand groups.
func HandleModSetCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	cfg := b.GetConfig()
	level := utils.CheckPermission(i.Member, i.Member.User.ID, cfg.DeveloperUserIDs, cfg.ModRoleIDs[i.GuildID])
	if !utils.IsAdmin(level) {
		utils.SendFollowUpError(s, i.Interaction, "You do not have permission to configure the moderation system.")
		return
	}

	group := i.ApplicationCommandData().Options[0]
	sub := group.Options[0]
	switch group.Name {
	case "shorthand":
		handleShorthand(s, i, b, sub)
	case "automod":
		handleAutomod(s, i, b, sub)
	case "log":
		handleLog(s, i, b, sub)
	case "appeal":
		handleAppeal(s, i, b, sub)
	case "message":
		handleMessage(s, i, b, sub)
	case "watchlist":
		handleWatchlist(s, i, b, sub)
	case "flag":
		handleFlag(s, i, b, sub)
	}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func handleShorthand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	db := b.GetDB()
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "add":
		shorthand := opts["shorthand"].StringValue()
		replacement := opts["replacement"].StringValue()
		if existing, err := settings_db.GetShorthand(db, i.GuildID, shorthand); err == nil {
			utils.SendFollowUpError(s, i.Interaction,
				fmt.Sprintf("`%s` already expands to %q. Remove it first to change it.", shorthand, existing.Replacement))
			return
		}
		if err := settings_db.AddShorthand(db, i.GuildID, shorthand, replacement); err != nil {
			log.Printf("Failed to add shorthand %q: %v", shorthand, err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to save the shorthand.")
			return
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("`%s` now expands to %q.", shorthand, replacement))

	case "remove":
		shorthand := opts["shorthand"].StringValue()
		err := settings_db.RemoveShorthand(db, i.GuildID, shorthand)
		if errors.Is(err, settings_db.ErrNotFound) {
			utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("No shorthand `%s` is configured.", shorthand))
			return
		}
		if err != nil {
			log.Printf("Failed to remove shorthand %q: %v", shorthand, err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to remove the shorthand.")
			return
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Removed shorthand `%s`.", shorthand))

	case "list":
		shs, err := settings_db.ListShorthands(db, i.GuildID)
		if err != nil {
			log.Printf("Failed to list shorthands: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to load the shorthands.")
			return
		}
		if len(shs) == 0 {
			utils.SendFollowUp(s, i.Interaction, "No shorthands are configured.")
			return
		}
		var sb strings.Builder
		for _, sh := range shs {
			sb.WriteString(fmt.Sprintf("`%s` → %s\n", sh.Shorthand, sh.Replacement))
		}
		utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
			Title:       "Reason shorthands",
			Description: sb.String(),
			Color:       0x95A5A6,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Applied in this order when expanding reasons"},
		}, nil)
	}
}

func handleAutomod(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	db := b.GetDB()
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "set":
		count := int(opts["count"].IntValue())
		action, durationSecs, err := moderation.ParseActionDescriptor(opts["action"].StringValue())
		if err != nil {
			utils.SendFollowUpError(s, i.Interaction, err.Error())
			return
		}

		rule := model.AutomodRule{
			GuildID:         i.GuildID,
			WarnCount:       count,
			Action:          action,
			DurationSeconds: durationSecs,
		}

		// Overwriting an existing rule needs a confirmation click.
		if existing, err := settings_db.GetAutomodRule(db, i.GuildID, count); err == nil {
			key := moderation.NewInfractionID(time.Now())
			b.PendingRules.Add(key, bot.PendingRule{Rule: rule, IssuerID: i.Member.User.ID})
			utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
				Title: "Rule already exists",
				Description: fmt.Sprintf("Count **%d** is currently set to **%s**. Replace it with **%s**?",
					count, describeRule(existing), describeRule(&rule)),
				Color: 0xF1C40F,
			}, []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Replace", Style: discordgo.DangerButton, CustomID: ConfirmPrefix + ":yes:" + key},
					discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: ConfirmPrefix + ":no:" + key},
				}},
			})
			return
		}

		if err := settings_db.SetAutomodRule(db, rule); err != nil {
			log.Printf("Failed to set automod rule: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to save the rule.")
			return
		}
		utils.SendFollowUp(s, i.Interaction,
			fmt.Sprintf("At **%d** non-expired warnings: **%s**.", count, describeRule(&rule)))

	case "show":
		rules, err := settings_db.ListAutomodRules(db, i.GuildID)
		if err != nil {
			log.Printf("Failed to list automod rules: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to load the rules.")
			return
		}
		if len(rules) == 0 {
			utils.SendFollowUp(s, i.Interaction, "No automod rules are configured.")
			return
		}
		var sb strings.Builder
		for _, rule := range rules {
			sb.WriteString(fmt.Sprintf("**%d** warnings → %s\n", rule.WarnCount, describeRule(&rule)))
		}
		utils.SendFollowUpEmbed(s, i.Interaction, &discordgo.MessageEmbed{
			Title:       "Automod rules",
			Description: sb.String(),
			Color:       0x95A5A6,
			Footer:      &discordgo.MessageEmbedFooter{Text: "A rule fires when the warn count matches exactly"},
		}, nil)

	case "clear":
		count := int(opts["count"].IntValue())
		err := settings_db.RemoveAutomodRule(db, i.GuildID, count)
		if errors.Is(err, settings_db.ErrNotFound) {
			utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("No rule is configured for count %d.", count))
			return
		}
		if err != nil {
			log.Printf("Failed to remove automod rule: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to remove the rule.")
			return
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Removed the rule for count %d.", count))

	case "clearall":
		if err := settings_db.ClearAutomodRules(db, i.GuildID); err != nil {
			log.Printf("Failed to clear automod rules: %v", err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to clear the rules.")
			return
		}
		utils.SendFollowUp(s, i.Interaction, "Cleared every automod rule.")
	}
}

func describeRule(rule *model.AutomodRule) string {
	if rule.DurationSeconds == nil {
		return string(rule.Action)
	}
	d := time.Duration(*rule.DurationSeconds) * time.Second
	return fmt.Sprintf("%s for %s", rule.Action, utils.FormatDuration(d))
}

// HandleAutomodConfirmation serves the Replace/Cancel buttons of an
// automod overwrite. Custom id format: automod_confirm:<yes|no>:<key>.
func HandleAutomodConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 {
		return
	}
	choice, key := parts[1], parts[2]

	respond := func(content string) {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    content,
				Embeds:     []*discordgo.MessageEmbed{},
				Components: []discordgo.MessageComponent{},
			},
		})
		if err != nil {
			log.Printf("Failed to resolve automod confirmation: %v", err)
		}
	}

	pending, ok := b.PendingRules.Get(key)
	if !ok {
		respond("This confirmation has expired. Run the command again.")
		return
	}
	if i.Member.User.ID != pending.IssuerID {
		utils.SendSimpleResponse(s, i, "Only the moderator who ran the command can confirm this.")
		return
	}
	b.PendingRules.Remove(key)

	if choice != "yes" {
		respond("Rule change cancelled.")
		return
	}
	if err := settings_db.SetAutomodRule(b.GetDB(), pending.Rule); err != nil {
		log.Printf("Failed to set automod rule after confirmation: %v", err)
		respond("Failed to save the rule.")
		return
	}
	respond(fmt.Sprintf("At **%d** non-expired warnings: **%s**.", pending.Rule.WarnCount, describeRule(&pending.Rule)))
}

// updateSettings loads the guild row, applies fn, and writes it back.
func updateSettings(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, fn func(gs *model.GuildSettings) string) {
	gs, err := settings_db.Get(b.GetDB(), i.GuildID)
	if err != nil {
		log.Printf("Failed to load settings for guild %s: %v", i.GuildID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the settings.")
		return
	}
	msg := fn(gs)
	if msg == "" {
		return
	}
	if err := settings_db.Update(b.GetDB(), gs); err != nil {
		log.Printf("Failed to update settings for guild %s: %v", i.GuildID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to save the settings.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, msg)
}

// templateSubcommand implements the set/show/clear pattern shared by
// every notice template setting.
func templateSubcommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot,
	sub *discordgo.ApplicationCommandInteractionDataOption, label, defaultTemplate string,
	field func(gs *model.GuildSettings) *string) {

	opts := optionMap(sub.Options)

	if opt, ok := opts["clear"]; ok && opt.BoolValue() {
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			*field(gs) = ""
			return fmt.Sprintf("The %s template has been reset to the default.", label)
		})
		return
	}
	if opt, ok := opts["template"]; ok {
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			*field(gs) = opt.StringValue()
			return fmt.Sprintf("The %s template has been updated.", label)
		})
		return
	}

	// No option given: show the current template.
	gs, err := settings_db.Get(b.GetDB(), i.GuildID)
	if err != nil {
		log.Printf("Failed to load settings for guild %s: %v", i.GuildID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to load the settings.")
		return
	}
	current := *field(gs)
	suffix := ""
	if current == "" {
		current = defaultTemplate
		suffix = " (default)"
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Current %s template%s:\n```\n%s\n```", label, suffix, current))
}

func handleLog(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "channel":
		if opt, ok := opts["clear"]; ok && opt.BoolValue() {
			updateSettings(s, i, b, func(gs *model.GuildSettings) string {
				gs.LogChannelID = ""
				return "Moderation logging disabled."
			})
			return
		}
		opt, ok := opts["channel"]
		if !ok {
			utils.SendFollowUpError(s, i.Interaction, "Give a channel, or set clear to true.")
			return
		}
		ch := opt.ChannelValue(s)
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.LogChannelID = ch.ID
			return fmt.Sprintf("Infractions will be logged to <#%s>.", ch.ID)
		})

	case "message":
		templateSubcommand(s, i, b, sub, "log notice", model.DefaultLogMessage,
			func(gs *model.GuildSettings) *string { return &gs.LogMessage })

	case "show":
		gs, err := settings_db.Get(b.GetDB(), i.GuildID)
		if err != nil {
			log.Printf("Failed to load settings for guild %s: %v", i.GuildID, err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to load the settings.")
			return
		}
		channel := "not set"
		if gs.LogChannelID != "" {
			channel = fmt.Sprintf("<#%s>", gs.LogChannelID)
		}
		template := "default"
		if gs.LogMessage != "" {
			template = "custom"
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Log channel: %s\nLog template: %s", channel, template))
	}
}

func handleAppeal(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "set":
		serverID := opts["server_id"].StringValue()
		// The bot must be a member of the appeal server to mint invites.
		if _, err := s.Guild(serverID); err != nil {
			utils.SendFollowUpError(s, i.Interaction, "I am not in that server, so I cannot create appeal invites for it.")
			return
		}
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.AppealGuildID = serverID
			return fmt.Sprintf("Ban and kick notices will carry an invite to server `%s`.", serverID)
		})

	case "clear":
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.AppealGuildID = ""
			return "Appeal invites disabled."
		})

	case "show":
		gs, err := settings_db.Get(b.GetDB(), i.GuildID)
		if err != nil {
			log.Printf("Failed to load settings for guild %s: %v", i.GuildID, err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to load the settings.")
			return
		}
		if gs.AppealGuildID == "" {
			utils.SendFollowUp(s, i.Interaction, "No appeal server is configured.")
			return
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Appeal server: `%s`", gs.AppealGuildID))
	}
}

func handleMessage(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	switch sub.Name {
	case "dm":
		templateSubcommand(s, i, b, sub, "DM notice", model.DefaultDMMessage,
			func(gs *model.GuildSettings) *string { return &gs.DMMessage })
	case "channel":
		templateSubcommand(s, i, b, sub, "channel notice", model.DefaultChannelMessage,
			func(gs *model.GuildSettings) *string { return &gs.ChannelMessage })
	}
}

func handleWatchlist(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "channel":
		if opt, ok := opts["clear"]; ok && opt.BoolValue() {
			updateSettings(s, i, b, func(gs *model.GuildSettings) string {
				gs.WatchlistChannelID = ""
				return "Watchlist notice channel cleared."
			})
			return
		}
		opt, ok := opts["channel"]
		if !ok {
			utils.SendFollowUpError(s, i.Interaction, "Give a channel, or set clear to true.")
			return
		}
		ch := opt.ChannelValue(s)
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.WatchlistChannelID = ch.ID
			return fmt.Sprintf("Watchlist notices will go to <#%s>.", ch.ID)
		})

	case "notify":
		enabled := opts["enabled"].BoolValue()
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.WatchlistNotify = enabled
			if enabled {
				return "Watchlist notices enabled."
			}
			return "Watchlist notices disabled."
		})

	case "message":
		templateSubcommand(s, i, b, sub, "watchlist notice", model.DefaultWatchlistMessage,
			func(gs *model.GuildSettings) *string { return &gs.WatchlistMessage })
	}
}

func handleFlag(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, sub *discordgo.ApplicationCommandInteractionDataOption) {
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "emoji":
		emoji := opts["emoji"].StringValue()
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.FlagEmoji = emoji
			return fmt.Sprintf("Reacting with %s now flags a message for review.", emoji)
		})

	case "channel":
		ch := opts["channel"].ChannelValue(s)
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.FlagChannelID = ch.ID
			return fmt.Sprintf("Flag alerts will go to <#%s>.", ch.ID)
		})

	case "threshold":
		count := int(opts["count"].IntValue())
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.FlagPingThreshold = count
			return fmt.Sprintf("Reviewers will be pinged once a message has %d reporters.", count)
		})

	case "modrole":
		role := opts["role"].RoleValue(s, i.GuildID)
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.FlagModRoleID = role.ID
			return fmt.Sprintf("Threshold crossings will ping <@&%s>.", role.ID)
		})

	case "cooldown":
		seconds := int(opts["seconds"].IntValue())
		updateSettings(s, i, b, func(gs *model.GuildSettings) string {
			gs.FlagCooldownSeconds = seconds
			return fmt.Sprintf("Repeat reports of one message are ignored for %d seconds.", seconds)
		})

	case "show":
		gs, err := settings_db.Get(b.GetDB(), i.GuildID)
		if err != nil {
			log.Printf("Failed to load settings for guild %s: %v", i.GuildID, err)
			utils.SendFollowUpError(s, i.Interaction, "Failed to load the settings.")
			return
		}
		if gs.FlagEmoji == "" || gs.FlagChannelID == "" {
			utils.SendFollowUp(s, i.Interaction, "Flagging is not fully configured. Set both the emoji and the review channel.")
			return
		}
		modRole := "not set"
		if gs.FlagModRoleID != "" {
			modRole = fmt.Sprintf("<@&%s>", gs.FlagModRoleID)
		}
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf(
			"Emoji: %s\nReview channel: <#%s>\nPing threshold: %d\nReviewer role: %s\nCooldown: %ds",
			gs.FlagEmoji, gs.FlagChannelID, gs.FlagPingThreshold, modRole, gs.FlagCooldownSeconds))
	}
}
