package moderation

import (
	"strings"

	"modplus-bot/model"
)

// ExpandReason applies a guild's reason shorthands to a submitted
// reason string. Each mapping is a sequential literal substring
// replacement, applied in insertion order. No escaping or recursion.
func ExpandReason(reason string, shorthands []model.ReasonShorthand) string {
	for _, sh := range shorthands {
		reason = strings.ReplaceAll(reason, sh.Shorthand, sh.Replacement)
	}
	return reason
}
