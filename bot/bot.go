package bot

import (
	"log"
	"sync/atomic"
	"time"

	"modplus-bot/commands"
	"modplus-bot/model"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jmoiron/sqlx"
)

// PendingRule is an automod rule change awaiting a yes/no confirmation
// because it would overwrite an existing rule.
type PendingRule struct {
	Rule     model.AutomodRule
	IssuerID string
}

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *sqlx.DB

	// FlagCooldowns debounces repeat flag reactions: key is
	// guild:channel:message:user, value is the last report time. Loss
	// of entries only weakens debouncing, so a bounded LRU is enough.
	FlagCooldowns *lru.Cache[string, time.Time]

	// PendingRules holds automod overwrites awaiting confirmation,
	// keyed by the confirmation component id. Entries expire; an
	// expired confirmation is reported plainly and commits nothing.
	PendingRules *expirable.LRU[string, PendingRule]

	done chan struct{}
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) Done() <-chan struct{} {
	return b.done
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	cooldowns, err := lru.New[string, time.Time](cfg.FlagCooldownEntries)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		Session:       dg,
		DB:            db,
		FlagCooldowns: cooldowns,
		PendingRules:  expirable.NewLRU[string, PendingRule](256, nil, 2*time.Minute),
		done:          make(chan struct{}),
	}
	b.config.Store(cfg)
	return b, nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	close(b.done)
	b.Session.Close()
}

// RefreshCommands re-registers the command set for one guild.
func (b *Bot) RefreshCommands(guildID string) {
	cmds := commands.GenerateCommands()
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, guildID, cmds)
	if err != nil {
		log.Printf("cannot update commands for guild '%s': %v", guildID, err)
		return
	}
	b.RegisteredCommands = append(b.RegisteredCommands, registered...)
	log.Printf("Registered %d commands for guild %s", len(registered), guildID)
}
