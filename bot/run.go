package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"modplus-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering commands...")
	b.RegisteredCommands = make([]*discordgo.ApplicationCommand, 0)
	guildIDs := b.GetConfig().GuildIDs
	if len(guildIDs) == 0 {
		// No explicit guild list: register in every guild the bot is in.
		guilds, err := b.Session.UserGuilds(100, "", "", false)
		if err != nil {
			log.Printf("Could not fetch guilds: %v", err)
		}
		for _, guild := range guilds {
			guildIDs = append(guildIDs, guild.ID)
		}
	}
	for _, guildID := range guildIDs {
		b.RefreshCommands(guildID)
	}

	NewScheduler(b).Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	if err := utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "System", "Startup", "Bot has started successfully."); err != nil {
		log.Printf("Failed to send startup log: %v", err)
	}
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
