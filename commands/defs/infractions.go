package defs

import "github.com/bwmarrin/discordgo"

var Infractions = &discordgo.ApplicationCommand{
	Name:        "infractions",
	Description: "Manage a member's infraction records",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List a member's infractions",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "show",
			Description: "Show one infraction in detail",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "The infraction id",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "delete",
			Description: "Delete one infraction",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "id",
					Description: "The infraction id",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "clear",
			Description: "Clear all infractions of a member",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(),
			},
		},
	},
}

var Lookup = &discordgo.ApplicationCommand{
	Name:        "lookup",
	Description: "Look up a user's moderation record (admin only)",
	Options: []*discordgo.ApplicationCommandOption{
		userOption(),
	},
}
