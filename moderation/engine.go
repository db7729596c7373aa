package moderation

import (
	"errors"
	"fmt"
	"log"
	"time"

	"modplus-bot/model"
	"modplus-bot/utils/database/infractions"
	"modplus-bot/utils/database/settings"
	"modplus-bot/utils/database/watchlist"

	"github.com/jmoiron/sqlx"
)

// Platform applies the platform-level consequence of an infraction
// (timeout, kick, ban). Implementations are best-effort; failures are
// recorded but never undo the ledger append.
type Platform interface {
	TimeoutMember(guildID, userID string, until time.Time, reason string) error
	KickMember(guildID, userID, reason string) error
	BanMember(guildID, userID, reason string) error
}

// Notifier delivers the post-append notices. Methods are invoked in a
// fixed order: log, DM, channel notice, watchlist notice. The DM result
// is only available to the notices that follow it.
type Notifier interface {
	LogInfraction(inf *model.Infraction)
	DMViolator(inf *model.Infraction) (dmsOpen bool)
	ChannelNotice(channelID string, inf *model.Infraction, dmsOpen bool)
	WatchlistNotice(inf *model.Infraction, dmsOpen bool)
}

// ActionRequest describes one moderation action to execute against a
// member. ChannelID, when set, is where the channel notice is posted.
type ActionRequest struct {
	GuildID   string
	UserID    string
	IssuerID  string
	Kind      model.InfractionKind
	Reason    string
	Duration  *time.Duration
	ChannelID string

	depth int
}

// Engine executes moderation actions: shorthand expansion, ledger
// append, platform enforcement, notice fan-out, and automod
// evaluation. Manual commands and automod consequences run through the
// same Execute path, so automod actions are logged and recorded like
// any other.
type Engine struct {
	DB       *sqlx.DB
	Platform Platform
	Notifier Notifier

	// MaxAutomodDepth bounds automod cascades. Consecutive configured
	// thresholds intentionally chain (each automod action appends an
	// infraction that is evaluated again); the cap only stops a
	// misconfiguration from recursing forever. Zero means the default.
	MaxAutomodDepth int
}

const defaultAutomodDepth = 10

// Execute performs the requested action. The ledger append is the
// durable fact: once it succeeds, failures in enforcement or notices
// are logged and do not propagate.
func (e *Engine) Execute(req ActionRequest) (*model.Infraction, error) {
	if req.Reason == "" {
		req.Reason = "No reason provided."
	}
	// A ban with a duration is recorded as a tempban.
	if req.Kind == model.KindBan && req.Duration != nil {
		req.Kind = model.KindTempBan
	}

	shorthands, err := settings.ListShorthands(e.DB, req.GuildID)
	if err != nil {
		return nil, err
	}
	reason := ExpandReason(req.Reason, shorthands)

	now := time.Now()
	inf := model.Infraction{
		InfractionID: NewInfractionID(now),
		GuildID:      req.GuildID,
		UserID:       req.UserID,
		Kind:         req.Kind,
		Reason:       reason,
		IssuerID:     req.IssuerID,
		IssuedAt:     now.Unix(),
	}
	if req.Duration != nil {
		secs := int64(req.Duration.Seconds())
		inf.DurationSeconds = &secs
	}

	if err := infractions.Add(e.DB, inf); err != nil {
		return nil, fmt.Errorf("ledger append failed: %w", err)
	}

	e.enforce(&inf)
	e.fanOut(&inf, req.ChannelID)
	e.checkAutomod(req)

	return &inf, nil
}

func (e *Engine) enforce(inf *model.Infraction) {
	if e.Platform == nil {
		return
	}
	var err error
	switch inf.Kind {
	case model.KindMute:
		until, ok := inf.ExpiresAt()
		if !ok {
			// A mute with no duration falls back to the platform maximum.
			until = time.Unix(inf.IssuedAt, 0).Add(28 * 24 * time.Hour)
		}
		err = e.Platform.TimeoutMember(inf.GuildID, inf.UserID, until, inf.Reason)
	case model.KindKick:
		err = e.Platform.KickMember(inf.GuildID, inf.UserID, inf.Reason)
	case model.KindBan, model.KindTempBan:
		err = e.Platform.BanMember(inf.GuildID, inf.UserID, inf.Reason)
	}
	if err != nil {
		log.Printf("Failed to enforce %s on user %s in guild %s: %v", inf.Kind, inf.UserID, inf.GuildID, err)
	}
}

// fanOut runs the post-append hooks in their documented order:
// log, DM, channel notice, watchlist notice. Automod runs after, in
// Execute. The DM result reaches only the notices after the DM.
func (e *Engine) fanOut(inf *model.Infraction, channelID string) {
	if e.Notifier == nil {
		return
	}
	e.Notifier.LogInfraction(inf)
	dmsOpen := e.Notifier.DMViolator(inf)
	if channelID != "" {
		e.Notifier.ChannelNotice(channelID, inf, dmsOpen)
	}

	_, err := watchlist.Get(e.DB, inf.GuildID, inf.UserID, time.Now())
	if err == nil {
		e.Notifier.WatchlistNotice(inf, dmsOpen)
	} else if !errors.Is(err, watchlist.ErrNotFound) {
		log.Printf("Failed to check watchlist for user %s in guild %s: %v", inf.UserID, inf.GuildID, err)
	}
}

func (e *Engine) checkAutomod(req ActionRequest) {
	maxDepth := e.MaxAutomodDepth
	if maxDepth <= 0 {
		maxDepth = defaultAutomodDepth
	}
	if req.depth >= maxDepth {
		log.Printf("Automod recursion cap (%d) reached for user %s in guild %s; stopping cascade", maxDepth, req.UserID, req.GuildID)
		return
	}

	count, err := infractions.CountNonExpired(e.DB, req.GuildID, req.UserID, model.KindWarn, time.Now())
	if err != nil {
		log.Printf("Automod count failed for user %s in guild %s: %v", req.UserID, req.GuildID, err)
		return
	}

	rule, err := settings.GetAutomodRule(e.DB, req.GuildID, count)
	if errors.Is(err, settings.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("Automod rule lookup failed for guild %s: %v", req.GuildID, err)
		return
	}

	next := ActionRequest{
		GuildID:   req.GuildID,
		UserID:    req.UserID,
		IssuerID:  req.IssuerID,
		Kind:      rule.Action,
		Reason:    fmt.Sprintf("Automod action for %d infractions", count),
		ChannelID: req.ChannelID,
		depth:     req.depth + 1,
	}
	if rule.DurationSeconds != nil {
		d := time.Duration(*rule.DurationSeconds) * time.Second
		next.Duration = &d
	}

	if _, err := e.Execute(next); err != nil {
		log.Printf("Automod action %s failed for user %s in guild %s: %v", rule.Action, req.UserID, req.GuildID, err)
	}
}
