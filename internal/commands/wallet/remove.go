package wallet

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
)

func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina una dirección de wallet",
		"wallet",
		removeHandler,
	).WithOptions(cryptoOption(true)).WithAutoComplete(storedCurrencies).OwnerOnly()
}

func removeHandler(ctx *discord.CommandContext) error {
	code := models.CurrencyCode(ctx.GetStringOption("cripto"))
	removed, err := ctx.Services().Data.RemoveWallet(ctx.GuildID(), code)
	if err != nil {
		return ctx.Fail(err)
	}
	if !removed {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No hay dirección de %s configurada.", code))
	}
	ctx.LogToGuild(fmt.Sprintf("💳 <@%s> eliminó la wallet %s", ctx.User().ID, code))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Wallet **%s** eliminada.", code))
}
