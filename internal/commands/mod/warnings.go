package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// maxListedWarnings keeps the reply under Discord's message limit.
const maxListedWarnings = 15

// createWarningsCommand creates the /mod warnings subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warnings",
		"Lista de advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	)
}

// warningsHandler lists a user's warnings. Anyone may see their own; other
// users' lists need moderator access.
func warningsHandler(ctx *discord.CommandContext) error {
	targetID := ctx.GetUserIDOption("usuario")
	if targetID == "" {
		targetID = ctx.User().ID
	}
	isModerator, err := ctx.HasAccess(discord.AccessModerator)
	if err != nil {
		return ctx.Fail(err)
	}
	if targetID != ctx.User().ID && !isModerator {
		return ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
	}

	list, err := ctx.Services().Data.ListWarnings(ctx.GuildID(), targetID)
	if err != nil {
		return ctx.Fail(err)
	}
	if len(list) == 0 {
		return ctx.ReplyEphemeral(fmt.Sprintf("✅ <@%s> no tiene advertencias en este servidor.", targetID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔖 **Advertencias de <@%s>** (%d)\n", targetID, len(list))
	start := 0
	if len(list) > maxListedWarnings {
		start = len(list) - maxListedWarnings
	}
	for _, w := range list[start:] {
		mod := "Desconocido"
		if isModerator {
			mod = "<@" + w.WarnedByID + ">"
		}
		fmt.Fprintf(&b, "\n`%s` <t:%d:d> por %s\n> %s", w.ID, w.Timestamp.Unix(), mod, w.Reason)
	}
	if start > 0 {
		fmt.Fprintf(&b, "\n\n… y %d más antiguas.", start)
	}
	return ctx.ReplyEphemeral(b.String())
}
