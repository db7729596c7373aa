package moderation

import (
	"fmt"
	"strconv"
	"strings"

	"modplus-bot/model"
)

// ParseActionDescriptor parses an automod consequence descriptor: a
// bare action tag ("kick") or an action tag with a duration in seconds
// ("tempban 3600").
func ParseActionDescriptor(s string) (model.InfractionKind, *int64, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		kind := model.InfractionKind(fields[0])
		if err := ValidateRule(kind, nil); err != nil {
			return "", nil, err
		}
		return kind, nil, nil
	case 2:
		kind := model.InfractionKind(fields[0])
		secs, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid duration %q: %w", fields[1], err)
		}
		if err := ValidateRule(kind, &secs); err != nil {
			return "", nil, err
		}
		return kind, &secs, nil
	default:
		return "", nil, fmt.Errorf("invalid action descriptor %q", s)
	}
}

// ValidateRule checks an automod consequence at configuration-write
// time, so dispatch never has to parse or validate anything.
func ValidateRule(action model.InfractionKind, durationSeconds *int64) error {
	switch action {
	case model.KindWarn, model.KindKick, model.KindBan:
		if durationSeconds != nil {
			return fmt.Errorf("action %s does not take a duration", action)
		}
	case model.KindMute:
		// duration optional
	case model.KindTempBan:
		if durationSeconds == nil {
			return fmt.Errorf("action tempban requires a duration")
		}
	default:
		return fmt.Errorf("unknown automod action %q", action)
	}
	if durationSeconds != nil && *durationSeconds <= 0 {
		return fmt.Errorf("duration must be positive, got %d", *durationSeconds)
	}
	return nil
}
