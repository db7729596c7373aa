package defs

import "github.com/bwmarrin/discordgo"

func templateOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "template",
		Description: description,
		Required:    false,
	}
}

func clearOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "clear",
		Description: "Clear the current value instead of setting one",
		Required:    false,
	}
}

// ModSet is the settings command group: reason shorthands, automod
// thresholds, logging, appeal server, notice templates, watchlist and
// flagging configuration.
var ModSet = &discordgo.ApplicationCommand{
	Name:        "modset",
	Description: "Configure the moderation system",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "shorthand",
			Description: "Reason shorthands expanded inside reason text",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a reason shorthand",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "shorthand", Description: "The short form", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "replacement", Description: "The text it expands to", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a reason shorthand",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "shorthand", Description: "The short form", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the configured shorthands",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "automod",
			Description: "Warn-count thresholds and their consequences",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set the consequence for an exact warn count",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "The exact non-expired warn count", Required: true, MinValue: func() *float64 { v := 0.0; return &v }()},
						{Type: discordgo.ApplicationCommandOptionString, Name: "action", Description: "The consequence, e.g. \"kick\", \"mute 600\" or \"tempban 3600\" (seconds)", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the configured thresholds",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Remove the rule for one warn count",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "The warn count to clear", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clearall",
					Description: "Remove every automod rule",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "log",
			Description: "Moderation log settings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Set or clear the log channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "The channel to log to", Required: false},
						clearOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "message",
					Description: "Set, show or clear the log notice template",
					Options: []*discordgo.ApplicationCommandOption{
						templateOption("The log notice template"),
						clearOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the logging settings",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "appeal",
			Description: "Appeal server for ban/kick invites",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set the appeal server",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "server_id", Description: "The appeal server id", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Clear the appeal server",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the appeal server",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "message",
			Description: "DM and channel notice templates",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "dm",
					Description: "Set, show or clear the DM notice template",
					Options: []*discordgo.ApplicationCommandOption{
						templateOption("The DM notice template"),
						clearOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Set, show or clear the channel notice template",
					Options: []*discordgo.ApplicationCommandOption{
						templateOption("The channel notice template"),
						clearOption(),
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "watchlist",
			Description: "Watchlist notification settings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Set the watchlist notice channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "The channel for watchlist notices", Required: false},
						clearOption(),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "notify",
					Description: "Enable or disable watchlist notices",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Whether to notify on new infractions", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "message",
					Description: "Set, show or clear the watchlist notice template",
					Options: []*discordgo.ApplicationCommandOption{
						templateOption("The watchlist notice template"),
						clearOption(),
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        "flag",
			Description: "Message flagging settings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "emoji",
					Description: "Set the reaction emoji that flags a message",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "emoji", Description: "The emoji, e.g. 🚩", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Set the review channel for flag alerts",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "The review channel", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "threshold",
					Description: "Set how many reporters trigger a reviewer ping",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "Reporter count that pings reviewers", Required: true, MinValue: func() *float64 { v := 1.0; return &v }()},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "modrole",
					Description: "Set the role pinged on threshold crossings",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "The reviewer role", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cooldown",
					Description: "Set the per-user report cooldown in seconds",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "seconds", Description: "Cooldown between reports of one message", Required: true, MinValue: func() *float64 { v := 0.0; return &v }()},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the flagging settings",
				},
			},
		},
	},
}
