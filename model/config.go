package model

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Config stores the process-level configuration. Per-guild moderation
// settings live in the database, not here.
type Config struct {
	BotToken     string
	AppID        string
	LogChannelID string

	DBPath              string
	SweepIntervalMins   int // tempban sweep cadence
	ReportHour          int // hour of day for the daily activity report
	AutomodMaxDepth     int
	FlagCooldownEntries int // bound on the flag cooldown cache

	DeveloperUserIDs []string
	ModRoleIDs       map[string][]string // guild id -> role ids allowed to moderate
	GuildIDs         []string            // guilds to register commands in
}

// Bot provides an interface for bot functionality to avoid circular
// dependencies between handlers and the bot package.
type Bot interface {
	GetConfig() *Config
	GetSession() *discordgo.Session
	GetDB() *sqlx.DB
}
