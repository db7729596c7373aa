package commands

import (
	"modplus-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the full application command set registered
// in each enabled guild.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Warn,
		defs.Mute,
		defs.Kick,
		defs.Ban,
		defs.TempBan,
		defs.Infractions,
		defs.Lookup,
		defs.Watchlist,
		defs.ModSet,
		defs.BotInfo,
	}
}
