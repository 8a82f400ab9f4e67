package ticket

import (
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

// closedChannelTTL is how long a closed ticket channel stays readable.
const closedChannelTTL = 5 * time.Second

// deleteLater schedules fn after d. Tests replace it to run fn inline.
var deleteLater = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

// createCloseCommand creates the /ticket close subcommand
func createCloseCommand() *discord.Command {
	return discord.NewCommand(
		"close",
		"Cierra el ticket de este canal",
		"tickets",
		closeCommandHandler,
	)
}

// closeCommandHandler lets staff or the opener close the ticket.
func closeCommandHandler(ctx *discord.CommandContext) error {
	return closeTicket(ctx, true)
}

// closeButtonHandler handles the close button. The component is staff-only.
func closeButtonHandler(ctx *discord.CommandContext) error {
	return closeTicket(ctx, false)
}

func closeTicket(ctx *discord.CommandContext, openerMayClose bool) error {
	svc := ctx.Services()
	t, err := svc.Tickets.Get(ctx.GuildID(), ctx.ChannelID())
	if err != nil {
		return ctx.Fail(err)
	}
	if t == nil {
		return ctx.ReplyEphemeral("❌ Este canal no es un ticket.")
	}

	staff, err := ctx.HasAccess(discord.AccessStaff)
	if err != nil {
		return ctx.Fail(err)
	}
	if !staff && !(openerMayClose && t.OpenedBy == ctx.User().ID) {
		return ctx.ReplyEphemeral("❌ No tienes permiso para cerrar este ticket.")
	}

	closed, err := svc.Tickets.Close(ctx.GuildID(), ctx.ChannelID(), ctx.User().ID)
	if errors.Is(err, tickets.ErrAlreadyClosed) {
		return ctx.ReplyEphemeral("❌ Este ticket ya está cerrado.")
	}
	if err != nil {
		return ctx.Fail(err)
	}

	// The opener keeps read access until the channel goes away.
	if err := ctx.Session.ChannelPermissionSet(ctx.ChannelID(), closed.OpenedBy, discordgo.PermissionOverwriteTypeMember,
		discordgo.PermissionViewChannel|discordgo.PermissionReadMessageHistory, discordgo.PermissionSendMessages); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo bloquear el ticket %s: %v", ctx.ChannelID(), err), "Tickets")
	}

	ctx.LogToGuild(fmt.Sprintf("🔒 <@%s> cerró el ticket `%s` de <@%s> (<#%s>)",
		ctx.User().ID, closed.TicketType, closed.OpenedBy, closed.ChannelID))

	channelID, session := ctx.ChannelID(), ctx.Session
	deleteLater(closedChannelTTL, func() {
		if _, err := session.ChannelDelete(channelID); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo borrar el canal del ticket %s: %v", channelID, err), "Tickets")
		}
	})

	return ctx.Reply(fmt.Sprintf("🔒 Ticket cerrado por <@%s>. El canal se borrará en %d segundos.",
		ctx.User().ID, int(closedChannelTTL.Seconds())))
}
