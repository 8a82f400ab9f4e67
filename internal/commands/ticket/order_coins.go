package ticket

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func coinOptions(verb string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "ign",
			Description: "Tu nombre en el juego",
			Required:    true,
			MaxLength:   100,
		},
		{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        "millones",
			Description: fmt.Sprintf("Cantidad de monedas a %s, en millones", verb),
			Required:    true,
		},
		paymentOption(),
	}
}

// createBuyCoinsCommand creates the /order buy_coins subcommand
func createBuyCoinsCommand() *discord.Command {
	return discord.NewCommand(
		"buy_coins",
		"Compra monedas",
		"tickets",
		func(ctx *discord.CommandContext) error { return coinsHandler(ctx, false) },
	).WithOptions(coinOptions("comprar")...).WithAutoComplete(paymentAutoComplete)
}

// createSellCoinsCommand creates the /order sell_coins subcommand
func createSellCoinsCommand() *discord.Command {
	return discord.NewCommand(
		"sell_coins",
		"Vende monedas",
		"tickets",
		func(ctx *discord.CommandContext) error { return coinsHandler(ctx, true) },
	).WithOptions(coinOptions("vender")...).WithAutoComplete(paymentAutoComplete)
}

// coinsHandler prices a coin order at millions × base price.
func coinsHandler(ctx *discord.CommandContext, selling bool) error {
	ticketType, prefix, title := models.TicketBuyCoins, "buy", "Compra de monedas"
	if selling {
		ticketType, prefix, title = models.TicketSellCoins, "sell", "Venta de monedas"
	}

	cfg, ok, err := loadCategory(ctx, ticketType)
	if err != nil {
		return ctx.Fail(err)
	}
	if !ok {
		return nil
	}

	millions := ctx.GetFloatOption("millones")
	if millions <= 0 || math.IsNaN(millions) || math.IsInf(millions, 0) {
		return ctx.ReplyEphemeral("❌ La cantidad debe ser mayor que 0.")
	}
	ign := strings.TrimSpace(ctx.GetStringOption("ign"))
	payment := strings.TrimSpace(ctx.GetStringOption("pago"))

	base := cfg.Coins.BuyBasePrice
	if selling {
		base = cfg.Coins.SellBasePrice
	}
	total := cfg.Coins.Price(millions, selling)

	return openTicket(ctx, cfg, order{
		Type: ticketType,
		Name: channelName(prefix, strconv.FormatFloat(millions, 'f', -1, 64)),
		Summary: fmt.Sprintf("**%s**\n• IGN: %s\n• Cantidad: %.2fM\n• Precio base: %s/mil\n• Total: %s\n• Pago: %s",
			title, ign, millions, formatPrice(base), formatPrice(total), payment),
		Total: total,
		Payload: map[string]any{
			"ign":            ign,
			"amount":         millions,
			"base_price":     base,
			"total_price":    total,
			"payment_method": payment,
		},
	})
}
