// Package mod - /mod ban command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

var minBanDays = 0.0

// createBanCommand creates the /mod ban subcommand
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor y lo añade a la blacklist",
		"mod",
		banHandler,
	).WithOptions(
		userOption("Usuario a banear"),
		reasonOption("Razón del ban"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días de mensajes a eliminar (0-7)",
			MinValue:    &minBanDays,
			MaxValue:    7,
		},
	).ModeratorOnly()
}

// banHandler handles the /mod ban command. The user is blacklisted before the
// ban so the store stays closed to them even if Discord rejects the ban.
func banHandler(ctx *discord.CommandContext) error {
	targetID, err := sanctionTarget(ctx, "banear")
	if targetID == "" {
		return err
	}
	reason := reasonOrDefault(ctx)
	days := int(ctx.GetIntOption("dias"))
	if days < 0 || days > 7 {
		return ctx.ReplyEphemeral("❌ Los días deben estar entre 0 y 7.")
	}

	if _, err := ctx.Services().Data.AddToBlacklist(ctx.GuildID(), targetID, reason, ctx.User().ID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo añadir a %s a la blacklist: %v", targetID, err), "Mod")
	}

	if err := ctx.Session.GuildBanCreateWithReason(ctx.GuildID(), targetID, reason, days); err != nil {
		return sanctionFailed(ctx, "banear", targetID, err)
	}

	ctx.LogToGuild(fmt.Sprintf("🔨 <@%s> baneó a <@%s> (%d días de mensajes): %s", ctx.User().ID, targetID, days, reason))
	return ctx.Reply(fmt.Sprintf("🔨 <@%s> ha sido baneado.\n**Razón:** %s\n**Mensajes eliminados:** %d días",
		targetID, reason, days))
}
