package defs

import "github.com/bwmarrin/discordgo"

func userOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "The member to act on",
		Required:    true,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason for the action (shorthands are expanded)",
		Required:    false,
	}
}

func durationOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duration",
		Description: description,
		Required:    required,
	}
}

var Warn = &discordgo.ApplicationCommand{
	Name:        "warn",
	Description: "Warn a member and record an infraction",
	Options: []*discordgo.ApplicationCommandOption{
		userOption(),
		reasonOption(),
		durationOption("Optional expiry for the warning, e.g. 12h, 3d, 1w", false),
	},
}

var Mute = &discordgo.ApplicationCommand{
	Name:        "mute",
	Description: "Time out a member and record an infraction",
	Options: []*discordgo.ApplicationCommandOption{
		userOption(),
		reasonOption(),
		durationOption("How long the mute lasts, e.g. 1h, 2d", false),
	},
}

var Kick = &discordgo.ApplicationCommand{
	Name:        "kick",
	Description: "Kick a member and record an infraction",
	Options: []*discordgo.ApplicationCommandOption{
		userOption(),
		reasonOption(),
	},
}

var Ban = &discordgo.ApplicationCommand{
	Name:        "ban",
	Description: "Ban a member and record an infraction. A duration makes it a tempban.",
	Options: []*discordgo.ApplicationCommandOption{
		userOption(),
		reasonOption(),
		durationOption("Optional: ban duration, e.g. 3d, 1w. Omit for permanent.", false),
	},
}

var TempBan = &discordgo.ApplicationCommand{
	Name:        "tempban",
	Description: "Temporarily ban a member and record an infraction",
	Options: []*discordgo.ApplicationCommandOption{
		userOption(),
		durationOption("How long the ban lasts, e.g. 3d, 1w", true),
		reasonOption(),
	},
}
