// Package stock provides the /stock commands: staff keep a per-category list
// of what the store has available and anyone can browse it.
package stock

import (
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterStockCommands registers the /stock group.
func RegisterStockCommands(client *discord.ExtendedClient) {
	group := client.CommandHandler.BuildCommandGroup(
		"stock",
		"Inventario de la tienda",
		createAddCommand(),
		createRemoveCommand(),
		createClearCommand(),
		createViewCommand(),
		createListCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
	logger.Debug("Comandos de stock registrados", "Commands")
}

func categoryOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "categoria",
		Description:  "Categoría (Cuentas, MFA, Coins...)",
		Required:     true,
		MaxLength:    50,
		Autocomplete: true,
	}
}

// storedCategories suggests the categories that already hold items.
func storedCategories(ctx *discord.CommandContext) {
	cats, err := ctx.Services().Data.StockCategories(ctx.GuildID())
	if err != nil {
		logger.Warn("No se pudieron listar las categorías de stock: "+err.Error(), "Stock")
		ctx.SendAutoCompleteChoices(nil)
		return
	}
	typed := strings.ToLower(ctx.GetStringOption("categoria"))

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cats))
	for _, cat := range cats {
		if len(choices) == 25 {
			break
		}
		if strings.Contains(strings.ToLower(cat), typed) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: cat, Value: cat})
		}
	}
	ctx.SendAutoCompleteChoices(choices)
}
