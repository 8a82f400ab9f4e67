package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot",
		"utils",
		pingHandler,
	)
}

// pingHandler handles the /utils ping command
func pingHandler(ctx *discord.CommandContext) error {
	if !ctx.Throttle(ratelimit.Command) {
		return nil
	}
	latency := ctx.Client.Session.HeartbeatLatency().Milliseconds()
	return ctx.Reply(fmt.Sprintf("🏓 Pong! Latencia: %dms", latency))
}
