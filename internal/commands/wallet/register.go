// Package wallet provides the /wallet commands that store and show the
// crypto addresses buyers pay to.
package wallet

import (
	"sort"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterWalletCommands registers the /wallet group.
func RegisterWalletCommands(client *discord.ExtendedClient) {
	group := client.CommandHandler.BuildCommandGroup(
		"wallet",
		"Direcciones de pago en cripto",
		createSetCommand(),
		createGetCommand(),
		createListCommand(),
		createRemoveCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
	logger.Debug("Comandos de wallet registrados", "Commands")
}

func cryptoOption(autocomplete bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "cripto",
		Description:  "Moneda (BTC, ETH, LTC, USDT...)",
		Required:     true,
		MaxLength:    20,
		Autocomplete: autocomplete,
	}
}

// storedCurrencies suggests the currencies that have an address stored.
func storedCurrencies(ctx *discord.CommandContext) {
	wallets, err := ctx.Services().Data.ListWallets(ctx.GuildID())
	if err != nil {
		logger.Warn("No se pudieron listar las wallets: "+err.Error(), "Wallet")
		ctx.SendAutoCompleteChoices(nil)
		return
	}
	typed := strings.ToUpper(ctx.GetStringOption("cripto"))

	codes := make([]string, 0, len(wallets))
	for code := range wallets {
		if strings.Contains(code, typed) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	if len(codes) > 25 {
		codes = codes[:25]
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(codes))
	for _, code := range codes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: code, Value: code})
	}
	ctx.SendAutoCompleteChoices(choices)
}
