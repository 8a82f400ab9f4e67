package ticket

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

const maxListedTickets = 20

// createListCommand creates the /ticket list subcommand
func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"Lista los tickets abiertos del servidor",
		"tickets",
		listHandler,
	).StaffOnly()
}

func listHandler(ctx *discord.CommandContext) error {
	open, err := ctx.Services().Tickets.ListOpen(ctx.GuildID())
	if err != nil {
		return ctx.Fail(err)
	}
	if len(open) == 0 {
		return ctx.ReplyEphemeral("📭 No hay tickets abiertos.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎫 **Tickets abiertos (%d)**\n", len(open))
	for i, t := range open {
		if i == maxListedTickets {
			fmt.Fprintf(&b, "\n… y %d más.", len(open)-maxListedTickets)
			break
		}
		fmt.Fprintf(&b, "\n<#%s> `%s` de <@%s> <t:%d:R>", t.ChannelID, t.TicketType, t.OpenedBy, t.OpenedAt.Unix())
	}
	return ctx.ReplyEphemeral(b.String())
}
