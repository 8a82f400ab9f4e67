package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func createCoinPricesCommand() *discord.Command {
	return discord.NewCommand("coins", "Precios por millón de coins", "config", coinPricesHandler).
		WithOptions(
			priceOption("compra", "Precio de compra por millón"),
			priceOption("venta", "Precio de venta por millón"),
		).OwnerOnly()
}

func coinPricesHandler(ctx *discord.CommandContext) error {
	buy, sell := ctx.GetFloatOption("compra"), ctx.GetFloatOption("venta")
	_, err := ctx.Services().Config.SetCoinPrices(ctx.GuildID(), buy, sell)
	if errors.Is(err, guildconfig.ErrInvalidPrice) {
		return ctx.ReplyEphemeral("❌ Los precios deben ser números positivos.")
	}
	if err != nil {
		return ctx.Fail(err)
	}
	ctx.LogToGuild(fmt.Sprintf("💰 <@%s> cambió los precios de coins: compra $%.2f, venta $%.2f", ctx.User().ID, buy, sell))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Coins: compra $%.2f/millón, venta $%.2f/millón", buy, sell))
}

func createMFAPriceCommand() *discord.Command {
	ranks := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.Ranks))
	for _, r := range models.Ranks {
		ranks = append(ranks, &discordgo.ApplicationCommandOptionChoice{Name: string(r), Value: string(r)})
	}
	return discord.NewCommand("mfa", "Precio MFA de un rango", "config", mfaPriceHandler).
		WithOptions(
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "lado",
				Description: "Compra o venta",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "compra", Value: string(guildconfig.Buy)},
					{Name: "venta", Value: string(guildconfig.Sell)},
				},
			},
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "rango",
				Description: "Rango",
				Required:    true,
				Choices:     ranks,
			},
			priceOption("precio", "Precio por cuenta"),
		).OwnerOnly()
}

func mfaPriceHandler(ctx *discord.CommandContext) error {
	dir := guildconfig.Direction(ctx.GetStringOption("lado"))
	rank := ctx.GetStringOption("rango")
	price := ctx.GetFloatOption("precio")

	_, err := ctx.Services().Config.SetMFAPrice(ctx.GuildID(), dir, rank, price)
	switch {
	case errors.Is(err, guildconfig.ErrInvalidPrice):
		return ctx.ReplyEphemeral("❌ El precio debe ser un número positivo.")
	case errors.Is(err, guildconfig.ErrUnknownRank):
		return ctx.ReplyEphemeral("❌ Rango desconocido.")
	case errors.Is(err, guildconfig.ErrLegacyPrices):
		return ctx.ReplyEphemeral("❌ La tabla de precios MFA está en un formato antiguo que no se pudo migrar. Corrige el archivo de configuración.")
	case err != nil:
		return ctx.Fail(err)
	}

	ctx.LogToGuild(fmt.Sprintf("💰 <@%s> cambió el precio MFA %s de %s a $%.2f", ctx.User().ID, dir, rank, price))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ MFA %s (%s): $%.2f", rank, dir, price))
}

func createPaymentsCommand() *discord.Command {
	return discord.NewCommand("payments", "Métodos de pago aceptados", "config", paymentsHandler).
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "metodos",
			Description: "Lista separada por comas (PayPal, Bitcoin, ...)",
			Required:    true,
			MaxLength:   1000,
		}).OwnerOnly()
}

func paymentsHandler(ctx *discord.CommandContext) error {
	cfg, err := ctx.Services().Config.SetPayments(ctx.GuildID(), strings.Split(ctx.GetStringOption("metodos"), ","))
	if err != nil {
		return ctx.Fail(err)
	}
	if len(cfg.Payments) == 0 {
		return ctx.ReplyEphemeral("✅ Métodos de pago vaciados.")
	}
	return ctx.ReplyEphemeral("✅ Métodos de pago: " + strings.Join(cfg.Payments, ", "))
}

// createDefaultsCommand copies this guild's pricing into the process-wide
// defaults used by new guilds. Only the application owner may run it.
func createDefaultsCommand() *discord.Command {
	return discord.NewCommand("defaults", "Usa los precios de este servidor como predeterminados", "config", defaultsHandler).OwnerOnly()
}

func defaultsHandler(ctx *discord.CommandContext) error {
	resolver := ctx.Services().Config
	if appOwner := resolver.AppOwnerID(); appOwner == "" || ctx.User().ID != appOwner {
		return ctx.ReplyEphemeral("❌ Solo el dueño de la aplicación puede cambiar los valores predeterminados.")
	}
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return ctx.Fail(err)
	}
	if cfg.MFAPrices.IsLegacy() {
		return ctx.ReplyEphemeral("❌ La tabla de precios MFA de este servidor está en formato antiguo.")
	}
	coins := cfg.Coins
	mfa := cfg.MFAPrices.Clone()
	if err := resolver.SetDefaults(cfg.Payments, &coins, &mfa); err != nil {
		return ctx.Fail(err)
	}
	return ctx.ReplyEphemeral("✅ Los precios de este servidor son ahora los predeterminados para servidores nuevos.")
}
