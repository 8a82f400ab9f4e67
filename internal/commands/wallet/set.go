package wallet

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createSetCommand() *discord.Command {
	return discord.NewCommand(
		"set",
		"Guarda o actualiza una dirección de wallet",
		"wallet",
		setHandler,
	).WithOptions(
		cryptoOption(false),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "direccion",
			Description: "Dirección de la wallet",
			Required:    true,
			MaxLength:   200,
		},
	).OwnerOnly()
}

func setHandler(ctx *discord.CommandContext) error {
	code, err := ctx.Services().Data.SetWallet(ctx.GuildID(), ctx.GetStringOption("cripto"), ctx.GetStringOption("direccion"))
	if errors.Is(err, database.ErrInvalidWallet) {
		return ctx.ReplyEphemeral("❌ Dirección inválida. Debe tener entre 10 y 200 caracteres.")
	}
	if err != nil {
		return ctx.Fail(err)
	}

	ctx.LogToGuild(fmt.Sprintf("💳 <@%s> actualizó la wallet %s", ctx.User().ID, code))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Wallet **%s** guardada.", code))
}
