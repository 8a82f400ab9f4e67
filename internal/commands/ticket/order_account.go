package ticket

import (
	"fmt"
	"math"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// listing describes one of the "sell something for a price" orders.
type listing struct {
	Type        models.TicketType
	Command     string
	Description string
	Prefix      string
	Title       string
}

var (
	sellAccount = listing{models.TicketSellAccount, "sell_account", "Vende una cuenta", "sell", "Venta de cuenta"}
	sellProfile = listing{models.TicketSellProfile, "sell_profile", "Vende un perfil", "sell-profile", "Venta de perfil"}
	sellAlt     = listing{models.TicketSellAlt, "sell_alt", "Vende una cuenta alternativa", "sell-alt", "Venta de alt"}
)

func createListingCommand(l listing) *discord.Command {
	return discord.NewCommand(
		l.Command,
		l.Description,
		"tickets",
		func(ctx *discord.CommandContext) error { return listingHandler(ctx, l) },
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "usuario",
			Description: "Nombre de la cuenta",
			Required:    true,
			MaxLength:   100,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionNumber,
			Name:        "precio",
			Description: "Precio que pides, en dólares",
			Required:    true,
		},
		paymentOption(),
	).WithAutoComplete(paymentAutoComplete)
}

// createSellAccountCommand creates the /order sell_account subcommand
func createSellAccountCommand() *discord.Command { return createListingCommand(sellAccount) }

// createSellProfileCommand creates the /order sell_profile subcommand
func createSellProfileCommand() *discord.Command { return createListingCommand(sellProfile) }

// createSellAltCommand creates the /order sell_alt subcommand
func createSellAltCommand() *discord.Command { return createListingCommand(sellAlt) }

func listingHandler(ctx *discord.CommandContext, l listing) error {
	cfg, ok, err := loadCategory(ctx, l.Type)
	if err != nil {
		return ctx.Fail(err)
	}
	if !ok {
		return nil
	}

	price := ctx.GetFloatOption("precio")
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ctx.ReplyEphemeral("❌ El precio debe ser un número mayor que 0 (por ejemplo 50.00).")
	}
	username := strings.TrimSpace(ctx.GetStringOption("usuario"))
	payment := strings.TrimSpace(ctx.GetStringOption("pago"))

	return openTicket(ctx, cfg, order{
		Type: l.Type,
		Name: channelName(l.Prefix, username),
		Summary: fmt.Sprintf("**%s**\n• Cuenta: %s\n• Precio: %s\n• Pago: %s\n• Vendedor: <@%s>",
			l.Title, username, formatPrice(price), payment, ctx.User().ID),
		Total: price,
		Payload: map[string]any{
			"username":       username,
			"price":          price,
			"payment_method": payment,
		},
	})
}

// createBuyAccountCommand creates the /order buy_account subcommand
func createBuyAccountCommand() *discord.Command {
	return discord.NewCommand(
		"buy_account",
		"Compra una cuenta",
		"tickets",
		buyAccountHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "ign",
			Description: "Tu nombre en el juego",
			Required:    true,
			MaxLength:   100,
		},
		paymentOption(),
	).WithAutoComplete(paymentAutoComplete)
}

func buyAccountHandler(ctx *discord.CommandContext) error {
	cfg, ok, err := loadCategory(ctx, models.TicketBuyAccount)
	if err != nil {
		return ctx.Fail(err)
	}
	if !ok {
		return nil
	}

	ign := strings.TrimSpace(ctx.GetStringOption("ign"))
	payment := strings.TrimSpace(ctx.GetStringOption("pago"))
	return openTicket(ctx, cfg, order{
		Type:    models.TicketBuyAccount,
		Name:    channelName("buy", ign),
		Summary: fmt.Sprintf("**Compra de cuenta**\n• IGN: %s\n• Pago: %s\n• Comprador: <@%s>", ign, payment, ctx.User().ID),
		Payload: map[string]any{
			"ign":            ign,
			"payment_method": payment,
		},
	})
}
