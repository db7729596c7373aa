package defs

import "github.com/bwmarrin/discordgo"

var BotInfo = &discordgo.ApplicationCommand{
	Name:        "botinfo",
	Description: "Show bot and host status",
}
