package commands

import (
	"go-yob/internal/models"

	"github.com/bwmarrin/discordgo"
)

// PermissionResolver returns a member's guild-level permissions: the
// @everyone role plus the member's roles, ignoring channel overwrites.
type PermissionResolver interface {
	MemberPermissions(guildID, userID string) (int64, error)
}

// RequiredPermission gates setLogChannel. Ban Members stands in for
// "moderator"; nothing is banned.
const RequiredPermission = discordgo.PermissionBanMembers

// authorize returns false and a short reason when the sender may not
// configure logging.
func (in *Interpreter) authorize(ev *models.ChangeEvent) (bool, string) {
	if ev.Author == nil {
		return false, "no author"
	}
	if ev.Author.Bot {
		return false, "author is a bot"
	}
	if ev.GuildID == "" {
		return false, "not in a guild"
	}
	if in.permissions == nil {
		return false, "permissions unavailable"
	}

	perms, err := in.permissions.MemberPermissions(ev.GuildID, ev.Author.ID)
	if err != nil {
		return false, "permissions unavailable: " + err.Error()
	}

	if !hasPermission(perms, RequiredPermission) {
		return false, "missing Ban Members"
	}
	return true, ""
}

// hasPermission treats Administrator as holding every permission.
func hasPermission(perms, required int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}
