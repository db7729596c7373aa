package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"modplus-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load builds the process configuration. Secrets come from the
// environment (.env supported); tunables come from data/config.yaml
// with sensible defaults, so the file is optional.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, operational logging will be disabled")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("data")

	v.SetDefault("db_path", "data/modplus.db")
	v.SetDefault("sweep_interval_minutes", 60)
	v.SetDefault("report_hour", 8)
	v.SetDefault("automod_max_depth", 10)
	v.SetDefault("flag_cooldown_entries", 4096)
	v.SetDefault("mod_role_ids", map[string][]string{})
	v.SetDefault("guild_ids", []string{})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read data/config.yaml: %w", err)
		}
		log.Println("Info: data/config.yaml not found, using defaults")
	}

	cfg := &model.Config{
		BotToken:            token,
		AppID:               appID,
		LogChannelID:        logChannelID,
		DBPath:              v.GetString("db_path"),
		SweepIntervalMins:   v.GetInt("sweep_interval_minutes"),
		ReportHour:          v.GetInt("report_hour"),
		AutomodMaxDepth:     v.GetInt("automod_max_depth"),
		FlagCooldownEntries: v.GetInt("flag_cooldown_entries"),
		DeveloperUserIDs:    splitIDs(os.Getenv("DEVELOPER_USER_IDS")),
		ModRoleIDs:          v.GetStringMapStringSlice("mod_role_ids"),
		GuildIDs:            v.GetStringSlice("guild_ids"),
	}
	return cfg, nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
