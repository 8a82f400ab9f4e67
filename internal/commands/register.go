// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, ticket, etc.)
package commands

import (
	"github.com/PancyStudios/PancyStoreGo/internal/commands/dev"
	"github.com/PancyStudios/PancyStoreGo/internal/commands/mod"
	"github.com/PancyStudios/PancyStoreGo/internal/commands/settings"
	"github.com/PancyStudios/PancyStoreGo/internal/commands/stock"
	"github.com/PancyStudios/PancyStoreGo/internal/commands/ticket"
	"github.com/PancyStudios/PancyStoreGo/internal/commands/utils"
	"github.com/PancyStudios/PancyStoreGo/internal/commands/vouch"
	"github.com/PancyStudios/PancyStoreGo/internal/commands/wallet"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// Utility commands (/utils ping, status, help, stats)
	utils.RegisterUtilsCommands(client)

	// Moderation commands (/mod warn, kick, ban, timeout, blacklist, ...)
	mod.RegisterModCommands(client)

	// Orders and ticket lifecycle (/order ..., /ticket ...)
	ticket.RegisterTicketCommands(client)

	// Vouches (/vouch, /vouches)
	vouch.RegisterVouchCommands(client)

	// Inventory (/stock ...)
	stock.RegisterStockCommands(client)

	// Payment addresses (/wallet ...)
	wallet.RegisterWalletCommands(client)

	// Configuration (/prices, /config ...)
	settings.RegisterSettingsCommands(client)

	// Maintenance, dev guild only (/dev ...)
	dev.Register(client)
}
