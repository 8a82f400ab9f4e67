package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createResetRateLimitCommand creates the /mod reset_ratelimit subcommand
func createResetRateLimitCommand() *discord.Command {
	return discord.NewCommand(
		"reset_ratelimit",
		"Reinicia los límites de uso de un usuario",
		"mod",
		resetRateLimitHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a reiniciar",
			Required:    true,
		},
	).OwnerOnly()
}

func resetRateLimitHandler(ctx *discord.CommandContext) error {
	targetID := ctx.GetUserIDOption("usuario")
	if targetID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if limiter := ctx.Services().Limiter; limiter != nil {
		limiter.Reset(targetID)
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Límites de uso reiniciados para <@%s>.", targetID))
}
