package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
)

// joinWindow separates real joins from the GuildCreate burst sent on connect.
const joinWindow = 10 * time.Second

var now = time.Now

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		onGuildCreate(client, s, g)
	})
	client.EventHandler.OnGuildDelete(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		onGuildDelete(client, g)
	})
}

// onGuildCreate materialises the guild config and greets new servers.
func onGuildCreate(client *discord.ExtendedClient, s *discordgo.Session, g *discordgo.GuildCreate) {
	metrics.Guilds.Set(float64(client.GuildCount()))

	if client.Services.Config != nil {
		if _, err := client.Services.Config.Resolve(g.ID); err != nil {
			logger.Error(fmt.Sprintf("No se pudo preparar la configuración de %s: %v", g.ID, err), "Guild")
		}
	}

	if g.JoinedAt.Before(now().Add(-joinWindow)) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}
	welcome := "¡Gracias por agregarme! 🎉\n" +
		"• Configura el rol de staff con `/config access staff_role`\n" +
		"• Ajusta precios con `/config prices`\n" +
		"• Los clientes abren pedidos con `/order`\n" +
		"Usa `/utils help` para ver todos los comandos."
	if _, err := s.ChannelMessageSend(g.SystemChannelID, welcome); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

// onGuildDelete is called when the bot is removed from a server. The guild
// data is kept so a re-invite finds its config and history.
func onGuildDelete(client *discord.ExtendedClient, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Servidor %s no disponible temporalmente", g.ID), "Guild")
		return
	}
	metrics.Guilds.Set(float64(client.GuildCount()))
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
