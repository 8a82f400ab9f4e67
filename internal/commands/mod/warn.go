// Package mod - /mod warn command
package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
			MaxLength:   500,
		},
	).ModeratorOnly()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	targetID := ctx.GetUserIDOption("usuario")
	if targetID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if u := ctx.ResolvedUser(targetID); u != nil && u.Bot {
		return ctx.ReplyEphemeral("❌ No puedes advertir a un bot.")
	}
	if targetID == ctx.User().ID {
		return ctx.ReplyEphemeral("❌ No puedes advertirte a ti mismo.")
	}
	if !ctx.Throttle(ratelimit.Command) {
		return nil
	}

	reason := ctx.GetStringOption("razon")
	warn, count, err := ctx.Services().Data.AddWarning(ctx.GuildID(), targetID, ctx.User().ID, reason)
	if errors.Is(err, database.ErrEmptyReason) {
		return ctx.ReplyEphemeral("❌ Debes especificar una razón.")
	}
	if err != nil {
		return ctx.Fail(err)
	}

	ctx.LogToGuild(fmt.Sprintf("⚠️ <@%s> advirtió a <@%s> (`%s`): %s", ctx.User().ID, targetID, warn.ID, warn.Reason))
	notifyUser(ctx, targetID, fmt.Sprintf("⚠️ Has recibido una advertencia en **%s**.\nRazón: %s", guildName(ctx), warn.Reason))

	return ctx.Reply(fmt.Sprintf("⚠️ <@%s> ha sido advertido.\n**Razón:** %s\n**ID:** `%s`\n**Advertencias totales:** %d",
		targetID, warn.Reason, warn.ID, count))
}

func guildName(ctx *discord.CommandContext) string {
	if g := ctx.Guild(); g != nil && g.Name != "" {
		return g.Name
	}
	return ctx.GuildID()
}
