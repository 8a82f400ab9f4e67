// Package ticket provides the storefront ticket commands: /order opens a
// ticket channel, /ticket manages it and the close button ends it.
package ticket

import (
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

// CloseButtonID is the custom ID of the button posted in every ticket.
const CloseButtonID = "ticket:close"

// RegisterTicketCommands registers /order, /ticket and the close button.
func RegisterTicketCommands(client *discord.ExtendedClient) {
	orderGroup := client.CommandHandler.BuildCommandGroup(
		"order",
		"Abre un ticket de compra o venta",
		createBuyCoinsCommand(),
		createSellCoinsCommand(),
		createBuyMFACommand(),
		createSellMFACommand(),
		createSellAccountCommand(),
		createSellProfileCommand(),
		createSellAltCommand(),
		createBuyAccountCommand(),
	)
	client.CommandHandler.AddGlobalCommand(orderGroup)

	ticketGroup := client.CommandHandler.BuildCommandGroup(
		"ticket",
		"Gestiona el ticket actual",
		createCloseCommand(),
		createInfoCommand(),
		createListCommand(),
	)
	client.CommandHandler.AddGlobalCommand(ticketGroup)

	client.CommandHandler.RegisterComponent(&discord.Component{
		ID:     CloseButtonID,
		Access: discord.AccessStaff,
		Run:    closeButtonHandler,
	})
}
