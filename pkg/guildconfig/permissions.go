package guildconfig

import "github.com/PancyStudios/PancyStoreGo/pkg/models"

// IsOwner reports whether userID may manage the store: the global owner from
// the defaults file, a listed guild owner, or the owner of the guild itself.
func IsOwner(appOwnerID string, cfg *models.GuildConfig, userID, guildOwnerID string) bool {
	if userID == "" {
		return false
	}
	if appOwnerID != "" && userID == appOwnerID {
		return true
	}
	if cfg != nil && cfg.HasOwner(userID) {
		return true
	}
	return guildOwnerID != "" && userID == guildOwnerID
}

// IsStaff reports whether a member counts as staff. Nobody is staff until a
// staff role is configured; after that administrators and holders of the
// role are.
func IsStaff(cfg *models.GuildConfig, memberRoles []string, isAdmin bool) bool {
	if cfg == nil || cfg.StaffRole == "" {
		return false
	}
	if isAdmin {
		return true
	}
	for _, role := range memberRoles {
		if models.FlexibleID(role) == cfg.StaffRole {
			return true
		}
	}
	return false
}
