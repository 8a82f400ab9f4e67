package discord

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
)

// ErrBlacklisted is returned by BlacklistMiddleware after it answered the user.
var ErrBlacklisted = errors.New("user is blacklisted")

// BlacklistMiddleware verifica si el usuario está en la blacklist del servidor
func (c *ExtendedClient) BlacklistMiddleware(ctx *CommandContext) error {
	if c.Services.Data == nil {
		return nil
	}
	userID := ctx.User().ID
	guildID := ctx.GuildID()

	entry, err := c.Services.Data.BlacklistEntryFor(guildID, userID)
	if errors.Is(err, database.ErrBlacklistEntryNotFound) {
		return nil
	}
	if err != nil {
		// Storage errors fail open.
		logger.Error(fmt.Sprintf("No se pudo leer la blacklist de %s: %v", guildID, err), "BlacklistMiddleware")
		return nil
	}
	msg := "❌ Estás en la blacklist y no puedes usar este bot."
	if entry.Reason != "" {
		msg += "\nRazón: " + entry.Reason
	}
	ctx.ReplyEphemeral(msg)

	logger.Warn(fmt.Sprintf("Usuario blacklisted intentó usar el bot: %s en %s", userID, guildID), "BlacklistMiddleware")
	return ErrBlacklisted
}
