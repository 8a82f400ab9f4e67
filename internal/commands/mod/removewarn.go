package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Revoca una advertencia específica de un usuario",
		"mod",
		removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del cual eliminar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).ModeratorOnly().WithAutoComplete(removeWarnAutoComplete)
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	targetID := ctx.GetUserIDOption("usuario")
	warnID := ctx.GetStringOption("id")
	if targetID == "" || warnID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario y el ID de la advertencia.")
	}

	err := ctx.Services().Data.RemoveWarning(ctx.GuildID(), targetID, warnID, ctx.User().ID)
	if errors.Is(err, database.ErrWarningNotFound) {
		return ctx.ReplyEphemeral("❌ No se encontró una advertencia con ese ID.")
	}
	if err != nil {
		return ctx.Fail(err)
	}

	ctx.LogToGuild(fmt.Sprintf("🗑️ <@%s> revocó la advertencia `%s` de <@%s>", ctx.User().ID, warnID, targetID))
	return ctx.Reply(fmt.Sprintf("✅ Advertencia `%s` de <@%s> revocada.", warnID, targetID))
}

// removeWarnAutoComplete suggests the warning IDs of the selected user.
func removeWarnAutoComplete(ctx *discord.CommandContext) {
	targetID := ctx.GetUserIDOption("usuario")
	if targetID == "" {
		return
	}
	list, err := ctx.Services().Data.ListWarnings(ctx.GuildID(), targetID)
	if err != nil || len(list) == 0 {
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for i, warn := range list {
		if i >= 25 {
			break
		}
		name := fmt.Sprintf("ID: %s - Razón: %s", warn.ID, warn.Reason)
		if r := []rune(name); len(r) > 100 {
			name = string(r[:97]) + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: warn.ID,
		})
	}

	ctx.SendAutoCompleteChoices(choices)
}
