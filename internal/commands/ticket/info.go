package ticket

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

// createInfoCommand creates the /ticket info subcommand
func createInfoCommand() *discord.Command {
	return discord.NewCommand(
		"info",
		"Muestra los datos del ticket de este canal",
		"tickets",
		infoHandler,
	)
}

func infoHandler(ctx *discord.CommandContext) error {
	t, err := ctx.Services().Tickets.Get(ctx.GuildID(), ctx.ChannelID())
	if err != nil {
		return ctx.Fail(err)
	}
	if t == nil {
		return ctx.ReplyEphemeral("❌ Este canal no es un ticket.")
	}
	if t.OpenedBy != ctx.User().ID {
		staff, err := ctx.HasAccess(discord.AccessStaff)
		if err != nil {
			return ctx.Fail(err)
		}
		if !staff {
			return ctx.ReplyEphemeral("❌ Solo el staff o quien abrió el ticket puede verlo.")
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎫 **Ticket `%s`**\n", t.TicketType)
	fmt.Fprintf(&b, "• Abierto por: <@%s> <t:%d:R>\n", t.OpenedBy, t.OpenedAt.Unix())
	if t.IsOpen {
		b.WriteString("• Estado: 🟢 Abierto\n")
	} else {
		b.WriteString("• Estado: 🔴 Cerrado")
		if t.ClosedBy != "" {
			fmt.Fprintf(&b, " por <@%s>", t.ClosedBy)
		}
		if t.ClosedAt != nil {
			fmt.Fprintf(&b, " <t:%d:R>", t.ClosedAt.Unix())
		}
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(t.Payload))
	for k := range t.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "• %s: %v\n", k, t.Payload[k])
	}
	return ctx.ReplyEphemeral(b.String())
}
