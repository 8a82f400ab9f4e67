package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createBlacklistCommand creates the /mod blacklist subcommand
func createBlacklistCommand() *discord.Command {
	return discord.NewCommand(
		"blacklist",
		"Impide a un usuario abrir tickets y dejar vouches",
		"mod",
		blacklistHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a bloquear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del bloqueo",
			Required:    true,
			MaxLength:   500,
		},
	).OwnerOnly()
}

func blacklistHandler(ctx *discord.CommandContext) error {
	targetID := ctx.GetUserIDOption("usuario")
	if targetID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if targetID == ctx.User().ID {
		return ctx.ReplyEphemeral("❌ No puedes añadirte a ti mismo a la blacklist.")
	}

	entry, err := ctx.Services().Data.AddToBlacklist(ctx.GuildID(), targetID, ctx.GetStringOption("razon"), ctx.User().ID)
	if errors.Is(err, database.ErrEmptyReason) {
		return ctx.ReplyEphemeral("❌ Debes especificar una razón.")
	}
	if err != nil {
		return ctx.Fail(err)
	}

	ctx.LogToGuild(fmt.Sprintf("⛔ <@%s> añadió a <@%s> a la blacklist: %s", ctx.User().ID, targetID, entry.Reason))
	return ctx.Reply(fmt.Sprintf("⛔ <@%s> fue añadido a la blacklist.\n**Razón:** %s", targetID, entry.Reason))
}
