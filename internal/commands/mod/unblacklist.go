package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createUnblacklistCommand creates the /mod unblacklist subcommand
func createUnblacklistCommand() *discord.Command {
	return discord.NewCommand(
		"unblacklist",
		"Quita a un usuario de la blacklist",
		"mod",
		unblacklistHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a desbloquear",
			Required:    true,
		},
	).OwnerOnly()
}

func unblacklistHandler(ctx *discord.CommandContext) error {
	targetID := ctx.GetUserIDOption("usuario")
	if targetID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	removed, err := ctx.Services().Data.RemoveFromBlacklist(ctx.GuildID(), targetID)
	if err != nil {
		return ctx.Fail(err)
	}
	if !removed {
		return ctx.ReplyEphemeral(fmt.Sprintf("ℹ️ <@%s> no está en la blacklist.", targetID))
	}

	ctx.LogToGuild(fmt.Sprintf("✅ <@%s> quitó a <@%s> de la blacklist", ctx.User().ID, targetID))
	return ctx.Reply(fmt.Sprintf("✅ <@%s> fue quitado de la blacklist.", targetID))
}
