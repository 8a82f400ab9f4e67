package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/config"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /utils stats subcommand
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		statsHandler,
	)
}

// statsHandler handles the /utils stats command
func statsHandler(ctx *discord.CommandContext) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	memberCount := 0
	ctx.Session.State.RLock()
	for _, guild := range ctx.Session.State.Guilds {
		memberCount += guild.MemberCount
	}
	ctx.Session.State.RUnlock()

	uptime := "recién iniciado"
	if !ctx.Client.StartTime.IsZero() {
		if d := formatDuration(time.Since(ctx.Client.StartTime)); d != "" {
			uptime = d
		}
	}

	return ctx.Reply(fmt.Sprintf(
		"📊 **Estadísticas del Bot**\n"+
			"• Versión: %s\n"+
			"• Go: %s | DiscordGo: %s\n"+
			"• RAM: %.2f MB\n"+
			"• Goroutines: %d / %d CPUs\n"+
			"• Uptime: %s\n"+
			"• Servidores: %d | Miembros: %d",
		config.Version,
		strings.TrimPrefix(runtime.Version(), "go"),
		discordgo.VERSION,
		float64(m.Alloc)/1024/1024,
		runtime.NumGoroutine(),
		runtime.NumCPU(),
		uptime,
		ctx.Client.GuildCount(),
		memberCount,
	))
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
