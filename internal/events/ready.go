// Package events provides event handlers for the bot
package events

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
)

const presence = "🛒 /order | /prices"

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.EventHandler.OnReady(func(s *discordgo.Session, r *discordgo.Ready) {
		onReady(client, s, r)
	})
}

// onReady is called when the bot successfully connects to Discord
func onReady(client *discord.ExtendedClient, s *discordgo.Session, r *discordgo.Ready) {
	logger.Success(fmt.Sprintf("✅ Bot conectado: %s", r.User.Username), "Ready")
	logger.Info(fmt.Sprintf("📊 Conectado a %d servidores", len(r.Guilds)), "Ready")

	metrics.GatewayConnected.Set(1)
	metrics.Guilds.Set(float64(len(r.Guilds)))

	if client.Services.Store != nil {
		client.Services.Store.PrimeCache()
	}

	if err := s.UpdateGameStatus(0, presence); err != nil {
		logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
		return
	}
	logger.Debug("Estado del bot establecido correctamente", "Ready")
}
