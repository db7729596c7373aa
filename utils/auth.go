package utils

import "github.com/bwmarrin/discordgo"

// Permission levels
const (
	DeveloperPermission = "developer"
	AdminPermission     = "admin"
	ModPermission       = "mod"
	GuestPermission     = "guest"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level for a member:
// developer (configured user ids), admin (Administrator permission),
// mod (configured moderator roles), or guest.
func CheckPermission(member *discordgo.Member, userID string, developerUserIDs, modRoleIDs []string) string {
	if contains(developerUserIDs, userID) {
		return DeveloperPermission
	}
	if member != nil && member.Permissions&discordgo.PermissionAdministrator != 0 {
		return AdminPermission
	}
	if member != nil {
		for _, roleID := range member.Roles {
			if contains(modRoleIDs, roleID) {
				return ModPermission
			}
		}
	}
	return GuestPermission
}

// CanModerate reports whether the permission level allows issuing
// moderation actions.
func CanModerate(level string) bool {
	return level == DeveloperPermission || level == AdminPermission || level == ModPermission
}

// IsAdmin reports whether the permission level allows privileged
// commands (lookup, settings).
func IsAdmin(level string) bool {
	return level == DeveloperPermission || level == AdminPermission
}
