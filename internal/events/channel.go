package events

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

// RegisterChannelEvents registers channel event handlers.
func RegisterChannelEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnChannelDelete(func(s *discordgo.Session, c *discordgo.ChannelDelete) {
		onChannelDelete(client, c)
	})
}

// onChannelDelete closes the ticket of a channel someone deleted by hand.
func onChannelDelete(client *discord.ExtendedClient, c *discordgo.ChannelDelete) {
	if c.Channel == nil || c.GuildID == "" || client.Services.Tickets == nil {
		return
	}

	closer, _ := client.Identity()
	if closer == "" {
		closer = "system"
	}
	t, err := client.Services.Tickets.Close(c.GuildID, c.ID, closer)
	switch {
	case errors.Is(err, tickets.ErrNotFound), errors.Is(err, tickets.ErrAlreadyClosed):
		return
	case err != nil:
		logger.Error(fmt.Sprintf("No se pudo cerrar el ticket del canal borrado %s: %v", c.ID, err), "Channel")
		return
	}

	logger.Info(fmt.Sprintf("Canal %s borrado, ticket de %s cerrado", c.ID, t.OpenedBy), "Channel")
	client.LogToGuild(c.GuildID, fmt.Sprintf("🗑️ El canal del ticket de <@%s> (%s) fue borrado y el ticket se cerró.", t.OpenedBy, t.TicketType))
}
