package templating

import (
	"fmt"
	"time"

	"modplus-bot/model"

	"github.com/flosch/pongo2/v6"
)

// MaxNoticeLength is the transport's maximum message length.
const MaxNoticeLength = 2000

// NoticeVars builds the substitution context for an infraction notice.
// serverName is the guild's display name; invite and dmsOpen are only
// meaningful for the notices that carry them.
func NoticeVars(inf *model.Infraction, serverName, invite string, dmsOpen bool) pongo2.Context {
	duration := "Permanent"
	if secs := inf.DurationSeconds; secs != nil {
		duration = (time.Duration(*secs) * time.Second).String()
	}
	return pongo2.Context{
		"server":   serverName,
		"violator": inf.UserID,
		"issuer":   inf.IssuerID,
		"reason":   inf.Reason,
		"id":       inf.InfractionID,
		"type":     string(inf.Kind),
		"duration": duration,
		"invite":   invite,
		"dms_open": dmsOpen,
	}
}

// Render executes a notice template and truncates the result to the
// transport limit. Template syntax errors are the caller's to log; the
// engine itself never validates templates ahead of time.
func Render(template string, vars pongo2.Context) (string, error) {
	tpl, err := pongo2.FromString(template)
	if err != nil {
		return "", fmt.Errorf("failed to parse notice template: %w", err)
	}
	out, err := tpl.Execute(vars)
	if err != nil {
		return "", fmt.Errorf("failed to render notice template: %w", err)
	}
	if runes := []rune(out); len(runes) > MaxNoticeLength {
		out = string(runes[:MaxNoticeLength])
	}
	return out, nil
}
