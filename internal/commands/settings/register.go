// Package settings provides /prices and the owner-only /config tree that
// edits the per-guild configuration.
package settings

import (
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// RegisterSettingsCommands registers /prices and /config.
func RegisterSettingsCommands(client *discord.ExtendedClient) {
	h := client.CommandHandler
	h.RegisterCommand(createPricesCommand())

	config := &discordgo.ApplicationCommand{
		Name:        "config",
		Description: "Configuración del servidor",
		Options: []*discordgo.ApplicationCommandOption{
			h.BuildSubcommandGroup("config", "general", "Vista general y utilidades",
				createViewCommand(),
				createInviteCommand(),
				createImagesCommand(),
			),
			h.BuildSubcommandGroup("config", "access", "Staff y dueños",
				createStaffRoleCommand(),
				createAddOwnerCommand(),
				createRemoveOwnerCommand(),
			),
			h.BuildSubcommandGroup("config", "channels", "Canales del bot",
				createChannelCommand(),
			),
			h.BuildSubcommandGroup("config", "prices", "Precios y métodos de pago",
				createCoinPricesCommand(),
				createMFAPriceCommand(),
				createPaymentsCommand(),
				createDefaultsCommand(),
			),
			h.BuildSubcommandGroup("config", "tickets", "Categorías de tickets",
				createToggleCommand(),
				createCategoryCommand(),
			),
		},
	}
	h.AddGlobalCommand(config)
	logger.Debug("Comandos de configuración registrados", "Commands")
}

func ticketTypeOption() *discordgo.ApplicationCommandOption {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.TicketTypes))
	for _, t := range models.TicketTypes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(t), Value: string(t)})
	}
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "tipo",
		Description: "Tipo de ticket",
		Required:    true,
		Choices:     choices,
	}
}

func priceOption(name, description string) *discordgo.ApplicationCommandOption {
	minPrice := 0.01
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionNumber,
		Name:        name,
		Description: description,
		Required:    true,
		MinValue:    &minPrice,
	}
}
