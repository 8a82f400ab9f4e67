package utils

import (
	"sort"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler lists every registered command the user may run.
func helpHandler(ctx *discord.CommandContext) error {
	byCategory := make(map[string][]string)
	for path, cmd := range ctx.Client.Commands.All() {
		if cmd.IsDev {
			continue
		}
		if ok, err := ctx.HasAccess(cmd.Access); err != nil || !ok {
			continue
		}
		line := "• `/" + strings.ReplaceAll(path, ".", " ") + "` - " + cmd.Description
		byCategory[cmd.Category] = append(byCategory[cmd.Category], line)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("📖 **Ayuda de PancyStore**\n")
	for _, c := range categories {
		lines := byCategory[c]
		sort.Strings(lines)
		b.WriteString("\n**" + c + "**\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return ctx.ReplyEphemeral(b.String())
}
