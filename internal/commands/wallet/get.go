package wallet

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
)

func createGetCommand() *discord.Command {
	return discord.NewCommand(
		"get",
		"Muestra la dirección de pago de una moneda",
		"wallet",
		getHandler,
	).WithOptions(cryptoOption(true)).WithAutoComplete(storedCurrencies)
}

func getHandler(ctx *discord.CommandContext) error {
	if !ctx.Throttle(ratelimit.Command) {
		return nil
	}
	code := models.CurrencyCode(ctx.GetStringOption("cripto"))
	addr, err := ctx.Services().Data.Wallet(ctx.GuildID(), code)
	if errors.Is(err, database.ErrWalletNotFound) {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No hay dirección de %s configurada.", code))
	}
	if err != nil {
		return ctx.Fail(err)
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("💳 **%s**\n`%s`", code, addr))
}
