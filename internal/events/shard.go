package events

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
)

// RegisterShardEvents tracks the gateway connection.
func RegisterShardEvents(client *discord.ExtendedClient) {
	client.EventHandler.RegisterEvent(onShardDisconnect)
	client.EventHandler.RegisterEvent(onShardResumed)
}

func onShardDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	metrics.GatewayConnected.Set(0)
	logger.Warn(fmt.Sprintf("🔌 Shard %d desconectado.", s.ShardID), "Shard")
}

func onShardResumed(s *discordgo.Session, _ *discordgo.Resumed) {
	metrics.GatewayConnected.Set(1)
	logger.Success(fmt.Sprintf("✅ Shard %d reanudado.", s.ShardID), "Shard")
}
