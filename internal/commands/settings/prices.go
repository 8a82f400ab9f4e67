package settings

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
)

// createPricesCommand creates the /prices command
func createPricesCommand() *discord.Command {
	return discord.NewCommand(
		"prices",
		"Muestra los precios actuales de la tienda",
		"shop",
		pricesHandler,
	)
}

func pricesHandler(ctx *discord.CommandContext) error {
	if !ctx.Throttle(ratelimit.Command) {
		return nil
	}
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return ctx.Fail(err)
	}
	return ctx.ReplyEphemeral(formatPrices(cfg))
}

// formatPrices renders the coin and MFA tables. Ranks without a price show $0.
func formatPrices(cfg *models.GuildConfig) string {
	var b strings.Builder
	b.WriteString("💰 **Precios**\n\n**Coins**\n")
	fmt.Fprintf(&b, "Compra: $%.2f/millón\nVenta: $%.2f/millón\n", cfg.Coins.BuyBasePrice, cfg.Coins.SellBasePrice)

	if cfg.MFAPrices.IsLegacy() {
		b.WriteString("\n⚠️ La tabla de precios MFA está en un formato antiguo. Usa `/config prices mfa` para reconfigurarla.")
	} else {
		b.WriteString("\n**MFA compra**\n")
		b.WriteString(rankRow(cfg.MFAPrices.Buy))
		b.WriteString("\n\n**MFA venta**\n")
		b.WriteString(rankRow(cfg.MFAPrices.Sell))
	}

	if len(cfg.Payments) > 0 {
		b.WriteString("\n\n**Métodos de pago:** ")
		b.WriteString(strings.Join(cfg.Payments, ", "))
	}
	return b.String()
}

func rankRow(table map[string]float64) string {
	parts := make([]string, 0, len(models.Ranks))
	for _, r := range models.Ranks {
		parts = append(parts, fmt.Sprintf("%s $%.2f", r, table[string(r)]))
	}
	return strings.Join(parts, " | ")
}
