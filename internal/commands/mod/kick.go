// Package mod - /mod kick command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

// createKickCommand creates the /mod kick subcommand
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		kickHandler,
	).WithOptions(
		userOption("Usuario a expulsar"),
		reasonOption("Razón de la expulsión"),
	).ModeratorOnly()
}

// kickHandler handles the /mod kick command
func kickHandler(ctx *discord.CommandContext) error {
	targetID, err := sanctionTarget(ctx, "expulsar")
	if targetID == "" {
		return err
	}
	reason := reasonOrDefault(ctx)

	if err := ctx.Session.GuildMemberDeleteWithReason(ctx.GuildID(), targetID, reason); err != nil {
		return sanctionFailed(ctx, "expulsar", targetID, err)
	}

	ctx.LogToGuild(fmt.Sprintf("👢 <@%s> expulsó a <@%s>: %s", ctx.User().ID, targetID, reason))
	return ctx.Reply(fmt.Sprintf("👢 <@%s> ha sido expulsado.\n**Razón:** %s", targetID, reason))
}
