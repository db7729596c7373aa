package model

// Default notice templates, used when a guild has not configured its own.
// Template syntax is pongo2; see templating package for the variable set.
const (
	DefaultLogMessage = "**{{ type|capfirst }}** `{{ id }}` | <@{{ violator }}> by <@{{ issuer }}>\n" +
		"Reason: {{ reason }}\nDuration: {{ duration }}"
	DefaultDMMessage = "You received a **{{ type }}** in {{ server }}.\n" +
		"Reason: {{ reason }}\nDuration: {{ duration }}" +
		"{% if invite %}\nYou may appeal here: {{ invite }}{% endif %}"
	DefaultChannelMessage = "<@{{ violator }}> has been {{ type }}ed. (infraction `{{ id }}`)"
	DefaultWatchlistMessage = "Watched member <@{{ violator }}> received a **{{ type }}** " +
		"(`{{ id }}`) from <@{{ issuer }}>: {{ reason }}"
)

// GuildSettings holds the per-guild moderation configuration row.
type GuildSettings struct {
	GuildID       string `db:"guild_id"`
	LogChannelID  string `db:"log_channel_id"`
	AppealGuildID string `db:"appeal_guild_id"`

	// Notice templates; empty means use the package defaults.
	LogMessage     string `db:"log_message"`
	DMMessage      string `db:"dm_message"`
	ChannelMessage string `db:"channel_message"`

	WatchlistChannelID string `db:"watchlist_channel_id"`
	WatchlistNotify    bool   `db:"watchlist_notify"`
	WatchlistMessage   string `db:"watchlist_message"`

	FlagEmoji           string `db:"flag_emoji"`
	FlagChannelID       string `db:"flag_channel_id"`
	FlagPingThreshold   int    `db:"flag_ping_threshold"`
	FlagModRoleID       string `db:"flag_mod_role_id"`
	FlagCooldownSeconds int    `db:"flag_cooldown_seconds"`
}

// ReasonShorthand is one configured text macro for reason strings.
type ReasonShorthand struct {
	GuildID     string `db:"guild_id"`
	Shorthand   string `db:"shorthand"`
	Replacement string `db:"replacement"`
}

// AutomodRule maps an exact non-expired warn count to a consequence.
// DurationSeconds is set for mute/tempban consequences only and is
// validated when the rule is written, not when it fires.
type AutomodRule struct {
	GuildID         string         `db:"guild_id"`
	WarnCount       int            `db:"warn_count"`
	Action          InfractionKind `db:"action"`
	DurationSeconds *int64         `db:"duration_seconds"`
}
