package utils

import (
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

// RegisterUtilsCommands registers the /utils subcommands.
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	pingCmd := createPingCommand()
	statusCmd := createStatusCommand()
	helpCmd := createHelpCommand()
	statsCmd := createStatsCommand()

	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		pingCmd,
		statusCmd,
		helpCmd,
		statsCmd,
	)

	client.CommandHandler.AddGlobalCommand(utilsGroup)
}
