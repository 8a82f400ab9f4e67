package dev

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func targetOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "servidor",
			Description: "ID del servidor",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "usuario",
			Description: "ID del usuario",
			Required:    true,
		},
	}
}

// createBlacklistAddCommand creates the /dev blacklist add command
func createBlacklistAddCommand() *discord.Command {
	opts := append(targetOptions(), &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: "Razón del bloqueo",
		Required:    true,
	})
	return discord.NewCommand(
		"add",
		"Bloquea a un usuario en un servidor",
		"dev",
		developer(blacklistAddHandler),
	).WithOptions(opts...).OwnerOnly()
}

func blacklistAddHandler(ctx *discord.CommandContext) error {
	guildID := ctx.GetStringOption("servidor")
	userID := ctx.GetStringOption("usuario")

	_, err := ctx.Services().Data.AddToBlacklist(guildID, userID, ctx.GetStringOption("razon"), ctx.User().ID)
	if errors.Is(err, database.ErrEmptyReason) {
		return ctx.ReplyEphemeral("❌ Debes indicar una razón.")
	}
	if err != nil {
		return ctx.Fail(err)
	}

	logger.Warn(fmt.Sprintf("Blacklist global: %s bloqueado en %s por %s", userID, guildID, ctx.User().ID), "Dev")
	ctx.Client.LogToGuild(guildID, fmt.Sprintf("🚫 <@%s> fue añadido a la blacklist por el desarrollador.", userID))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ `%s` bloqueado en `%s`.", userID, guildID))
}

// createBlacklistRemoveCommand creates the /dev blacklist remove command
func createBlacklistRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Desbloquea a un usuario en un servidor",
		"dev",
		developer(blacklistRemoveHandler),
	).WithOptions(targetOptions()...).OwnerOnly()
}

func blacklistRemoveHandler(ctx *discord.CommandContext) error {
	guildID := ctx.GetStringOption("servidor")
	userID := ctx.GetStringOption("usuario")

	removed, err := ctx.Services().Data.RemoveFromBlacklist(guildID, userID)
	if err != nil {
		return ctx.Fail(err)
	}
	if !removed {
		return ctx.ReplyEphemeral(fmt.Sprintf("ℹ️ `%s` no estaba en la blacklist de `%s`.", userID, guildID))
	}
	logger.Info(fmt.Sprintf("Blacklist global: %s desbloqueado en %s", userID, guildID), "Dev")
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ `%s` desbloqueado en `%s`.", userID, guildID))
}
