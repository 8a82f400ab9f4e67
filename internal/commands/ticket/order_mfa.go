package ticket

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func mfaOptions() []*discordgo.ApplicationCommandOption {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.Ranks))
	for _, r := range models.Ranks {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(r), Value: string(r)})
	}
	minCount := 1.0
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "rango",
			Description: "Rango de las cuentas",
			Required:    true,
			Choices:     choices,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Número de cuentas",
			Required:    true,
			MinValue:    &minCount,
			MaxValue:    1000,
		},
		paymentOption(),
	}
}

// createBuyMFACommand creates the /order buy_mfa subcommand
func createBuyMFACommand() *discord.Command {
	return discord.NewCommand(
		"buy_mfa",
		"Compra cuentas MFA",
		"tickets",
		func(ctx *discord.CommandContext) error { return mfaHandler(ctx, false) },
	).WithOptions(mfaOptions()...).WithAutoComplete(paymentAutoComplete)
}

// createSellMFACommand creates the /order sell_mfa subcommand
func createSellMFACommand() *discord.Command {
	return discord.NewCommand(
		"sell_mfa",
		"Vende cuentas MFA",
		"tickets",
		func(ctx *discord.CommandContext) error { return mfaHandler(ctx, true) },
	).WithOptions(mfaOptions()...).WithAutoComplete(paymentAutoComplete)
}

// mfaHandler prices an MFA order from the guild's rank table.
func mfaHandler(ctx *discord.CommandContext, selling bool) error {
	ticketType, prefix, title := models.TicketBuyMFA, "buy", "Compra de MFA"
	if selling {
		ticketType, prefix, title = models.TicketSellMFA, "sell", "Venta de MFA"
	}

	cfg, ok, err := loadCategory(ctx, ticketType)
	if err != nil {
		return ctx.Fail(err)
	}
	if !ok {
		return nil
	}

	rank := strings.ToUpper(strings.TrimSpace(ctx.GetStringOption("rango")))
	if !models.ValidRank(rank) {
		return ctx.ReplyEphemeral("❌ Rango desconocido.")
	}
	count := ctx.GetIntOption("cantidad")
	if count < 1 {
		return ctx.ReplyEphemeral("❌ La cantidad debe ser al menos 1.")
	}

	table := cfg.MFAPrices.Buy
	if selling {
		table = cfg.MFAPrices.Sell
	}
	unit, ok := table[rank]
	if !ok || unit <= 0 {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No hay precio configurado para el rango %s.", rank))
	}
	total := unit * float64(count)
	payment := strings.TrimSpace(ctx.GetStringOption("pago"))

	return openTicket(ctx, cfg, order{
		Type: ticketType,
		Name: channelName(prefix, rank, strconv.FormatInt(count, 10)),
		Summary: fmt.Sprintf("**%s**\n• Rango: %s\n• Cantidad: %d\n• Precio por cuenta: %s\n• Total: %s\n• Pago: %s",
			title, rank, count, formatPrice(unit), formatPrice(total), payment),
		Total: total,
		Payload: map[string]any{
			"rank":           rank,
			"count":          count,
			"unit_price":     unit,
			"total_price":    total,
			"payment_method": payment,
		},
	})
}
