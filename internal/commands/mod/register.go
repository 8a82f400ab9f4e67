// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient) {
	warnCmd := createWarnCommand()
	warningsCmd := createWarningsCommand()
	removeWarnCmd := createRemoveWarnCommand()
	blacklistCmd := createBlacklistCommand()
	unblacklistCmd := createUnblacklistCommand()
	resetCmd := createResetRateLimitCommand()
	kickCmd := createKickCommand()
	banCmd := createBanCommand()
	timeoutCmd := createTimeoutCommand()

	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		warnCmd,
		warningsCmd,
		removeWarnCmd,
		blacklistCmd,
		unblacklistCmd,
		resetCmd,
		kickCmd,
		banCmd,
		timeoutCmd,
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}

// notifyUser sends a DM. Users with closed DMs are only logged.
func notifyUser(ctx *discord.CommandContext, userID, content string) {
	ch, err := ctx.Session.UserChannelCreate(userID)
	if err != nil {
		logger.Debug(fmt.Sprintf("No se pudo abrir un DM con %s: %v", userID, err), "Mod")
		return
	}
	if _, err := ctx.Session.ChannelMessageSend(ch.ID, content); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el DM a %s: %v", userID, err), "Mod")
	}
}
