package vouch

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createVouchCommand creates the /vouch command
func createVouchCommand() *discord.Command {
	return discord.NewCommand(
		"vouch",
		"Pide al comprador de este ticket que deje un vouch",
		"vouches",
		requestHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "comprador",
			Description: "Comprador que debe dejar el vouch",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "vendedor",
			Description: "Vendedor a valorar (por defecto, quien abrió el ticket)",
			Required:    false,
		},
	).StaffOnly()
}

// requestHandler posts the vouch button in the current ticket.
func requestHandler(ctx *discord.CommandContext) error {
	t, err := ctx.Services().Tickets.Get(ctx.GuildID(), ctx.ChannelID())
	if err != nil {
		return ctx.Fail(err)
	}
	if t == nil {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en canales de ticket.")
	}

	buyerID := ctx.GetUserIDOption("comprador")
	sellerID := ctx.GetUserIDOption("vendedor")
	if sellerID == "" {
		sellerID = t.OpenedBy
	}
	if buyerID == sellerID {
		return ctx.ReplyEphemeral("❌ El comprador y el vendedor no pueden ser la misma persona.")
	}
	if u := ctx.ResolvedUser(buyerID); u != nil && u.Bot {
		return ctx.ReplyEphemeral("❌ Un bot no puede dejar vouches.")
	}

	return ctx.ReplyWithComponents(
		fmt.Sprintf("⭐ <@%s>, deja un vouch para <@%s> pulsando el botón.\n**Vendedor:** <@%s>\n**Comprador:** <@%s>",
			buyerID, sellerID, sellerID, buyerID),
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Enviar vouch",
				Style:    discordgo.SuccessButton,
				CustomID: SubmitButtonID + ":" + sellerID,
				Emoji:    &discordgo.ComponentEmoji{Name: "⭐"},
			},
		}},
	)
}
