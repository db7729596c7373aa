package handlers

import (
	"log"
	"strings"

	"modplus-bot/bot"
	"modplus-bot/handlers/flag"
	"modplus-bot/handlers/infractions"
	"modplus-bot/handlers/mod"
	"modplus-bot/handlers/settings"
	"modplus-bot/handlers/watchlist"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	handlers := map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"infractions": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			infractions.HandleInfractionsCommand(s, i, b)
		},
		"lookup": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			LookupHandler(s, i, b)
		},
		"watchlist": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			watchlist.HandleWatchlistCommand(s, i, b)
		},
		"modset": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			settings.HandleModSetCommand(s, i, b)
		},
		"botinfo": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
	// The five action commands share one handler; the command name
	// selects the infraction kind.
	for _, name := range []string{"warn", "mute", "kick", "ban", "tempban"} {
		handlers[name] = func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			mod.HandleModerationCommand(s, i, b)
		}
	}
	return handlers
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
				h(s, i)
			}
		case discordgo.InteractionMessageComponent:
			handleComponent(s, i, b)
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		flag.HandleReactionAdd(s, r, b)
	})
}

// handleComponent routes buttons and select menus by custom id prefix.
func handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, infractions.PaginationPrefix+":"):
		infractions.HandlePagination(s, i, b)
	case strings.HasPrefix(customID, settings.ConfirmPrefix+":"):
		settings.HandleAutomodConfirmation(s, i, b)
	case strings.HasPrefix(customID, flag.ReviewPrefix+":"):
		flag.HandleReviewButton(s, i, b)
	case strings.HasPrefix(customID, flag.ActionPrefix+":"):
		flag.HandleActionSelect(s, i, b)
	}
}
