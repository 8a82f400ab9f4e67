package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		statusHandler,
	)
}

// statusHandler handles the /utils status command
func statusHandler(ctx *discord.CommandContext) error {
	if !ctx.Throttle(ratelimit.Command) {
		return nil
	}
	dbStatus, _ := ctx.Services().Store.Status()

	open := 0
	if list, err := ctx.Services().Tickets.ListOpen(ctx.GuildID()); err == nil {
		open = len(list)
	}

	return ctx.Reply(fmt.Sprintf(
		"📊 **Estado del Bot**\n"+
			"• Bot: 🟢 Online\n"+
			"• Almacenamiento: %s\n"+
			"• Servidores: %d\n"+
			"• Tickets abiertos aquí: %d",
		dbStatus,
		ctx.Client.GuildCount(),
		open,
	))
}
