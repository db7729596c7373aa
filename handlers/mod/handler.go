package mod

import (
	"fmt"
	"log"
	"strings"
	"time"

	"modplus-bot/model"
	"modplus-bot/moderation"
	"modplus-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// NewEngine builds a moderation engine backed by the live Discord
// session. Tests construct Engine directly with their own Platform and
// Notifier.
func NewEngine(s *discordgo.Session, db *sqlx.DB, cfg *model.Config) *moderation.Engine {
	return &moderation.Engine{
		DB:              db,
		Platform:        &discordPlatform{session: s},
		Notifier:        &discordNotifier{session: s, db: db},
		MaxAutomodDepth: cfg.AutomodMaxDepth,
	}
}

type commandOptions struct {
	TargetUser *discordgo.User
	Reason     string
	Duration   *time.Duration
}

func parseCommandOptions(s *discordgo.Session, i *discordgo.InteractionCreate) (*commandOptions, error) {
	opts := &commandOptions{}
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			opts.TargetUser = opt.UserValue(s)
		case "reason":
			opts.Reason = opt.StringValue()
		case "duration":
			d, err := utils.ParseDuration(opt.StringValue())
			if err != nil {
				return nil, fmt.Errorf("invalid duration %q: %w", opt.StringValue(), err)
			}
			opts.Duration = &d
		}
	}
	if opts.TargetUser == nil {
		return nil, fmt.Errorf("missing user option")
	}
	return opts, nil
}

var commandKinds = map[string]model.InfractionKind{
	"warn":    model.KindWarn,
	"mute":    model.KindMute,
	"kick":    model.KindKick,
	"ban":     model.KindBan,
	"tempban": model.KindTempBan,
}

// HandleModerationCommand executes warn, mute, kick, ban and tempban.
// All five go through the same engine path; the only per-command
// differences are the infraction kind and which options the command
// definition exposes.
func HandleModerationCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
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

	opts, err := parseCommandOptions(s, i)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, err.Error())
		return
	}
	if opts.TargetUser.ID == i.Member.User.ID {
		utils.SendFollowUpError(s, i.Interaction, "You cannot moderate yourself.")
		return
	}
	if opts.TargetUser.ID == s.State.User.ID {
		utils.SendFollowUpError(s, i.Interaction, "I cannot moderate myself.")
		return
	}

	name := i.ApplicationCommandData().Name
	kind, ok := commandKinds[name]
	if !ok {
		utils.SendFollowUpError(s, i.Interaction, "Unknown moderation command.")
		return
	}
	if kind == model.KindTempBan && opts.Duration == nil {
		utils.SendFollowUpError(s, i.Interaction, "Tempban requires a duration.")
		return
	}

	engine := NewEngine(s, b.GetDB(), cfg)
	inf, err := engine.Execute(moderation.ActionRequest{
		GuildID:   i.GuildID,
		UserID:    opts.TargetUser.ID,
		IssuerID:  i.Member.User.ID,
		Kind:      kind,
		Reason:    opts.Reason,
		Duration:  opts.Duration,
		ChannelID: i.ChannelID,
	})
	if err != nil {
		log.Printf("Moderation action %s failed in guild %s: %v", name, i.GuildID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to record the infraction.")
		return
	}

	utils.SendFollowUpEmbed(s, i.Interaction, buildActionEmbed(inf, opts.TargetUser), nil)
}

func titleKind(kind model.InfractionKind) string {
	k := string(kind)
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

func buildActionEmbed(inf *model.Infraction, target *discordgo.User) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: fmt.Sprintf("%s (`%s`)", target.Mention(), target.ID), Inline: true},
		{Name: "Case ID", Value: fmt.Sprintf("`%s`", inf.InfractionID), Inline: true},
		{Name: "Reason", Value: inf.Reason},
	}
	if d, ok := inf.Duration(); ok {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Duration", Value: utils.FormatDuration(d), Inline: true,
		})
	}
	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("%s issued", titleKind(inf.Kind)),
		Color:     0xE67E22,
		Fields:    fields,
		Timestamp: time.Unix(inf.IssuedAt, 0).Format(time.RFC3339),
	}
}
