package defs

import "github.com/bwmarrin/discordgo"

var Watchlist = &discordgo.ApplicationCommand{
	Name:        "watchlist",
	Description: "Manage the member watchlist",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "add",
			Description: "Add a member to the watchlist (overwrites an existing entry)",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(),
				reasonOption(),
				durationOption("Optional: how long the entry lasts, e.g. 2w", false),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "remove",
			Description: "Remove a member from the watchlist",
			Options: []*discordgo.ApplicationCommandOption{
				userOption(),
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "clear",
			Description: "Clear the entire watchlist for this server",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List watched members still in this server",
		},
	},
}
