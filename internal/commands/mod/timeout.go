// Package mod - /mod timeout command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// maxTimeoutMinutes is Discord's 28 day timeout cap.
const maxTimeoutMinutes = 40320

var minTimeoutMinutes = 1.0

// createTimeoutCommand creates the /mod timeout subcommand
func createTimeoutCommand() *discord.Command {
	return discord.NewCommand(
		"timeout",
		"Silencia a un usuario temporalmente",
		"mod",
		timeoutHandler,
	).WithOptions(
		userOption("Usuario a silenciar"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "duracion",
			Description: "Duración en minutos (1-40320)",
			Required:    true,
			MinValue:    &minTimeoutMinutes,
			MaxValue:    maxTimeoutMinutes,
		},
		reasonOption("Razón del silencio"),
	).ModeratorOnly()
}

// timeoutHandler handles the /mod timeout command
func timeoutHandler(ctx *discord.CommandContext) error {
	targetID, err := sanctionTarget(ctx, "silenciar")
	if targetID == "" {
		return err
	}
	minutes := ctx.GetIntOption("duracion")
	if minutes < 1 || minutes > maxTimeoutMinutes {
		return ctx.ReplyEphemeral("❌ La duración debe estar entre 1 y 40320 minutos.")
	}
	reason := reasonOrDefault(ctx)

	until := ctx.Services().Data.Now().Add(time.Duration(minutes) * time.Minute)
	if err := ctx.Session.GuildMemberTimeout(ctx.GuildID(), targetID, &until); err != nil {
		return sanctionFailed(ctx, "silenciar", targetID, err)
	}

	ctx.LogToGuild(fmt.Sprintf("🔇 <@%s> silenció a <@%s> durante %d minutos: %s", ctx.User().ID, targetID, minutes, reason))
	return ctx.Reply(fmt.Sprintf("🔇 <@%s> ha sido silenciado hasta <t:%d:f>.\n**Razón:** %s",
		targetID, until.Unix(), reason))
}
