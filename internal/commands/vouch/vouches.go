package vouch

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/bwmarrin/discordgo"
)

const recentVouches = 5

// createVouchesCommand creates the /vouches command
func createVouchesCommand() *discord.Command {
	return discord.NewCommand(
		"vouches",
		"Muestra los vouches de un vendedor",
		"vouches",
		vouchesHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "vendedor",
			Description: "Vendedor a consultar (por defecto, tú)",
			Required:    false,
		},
	)
}

func vouchesHandler(ctx *discord.CommandContext) error {
	if !ctx.Throttle(ratelimit.Command) {
		return nil
	}
	sellerID := ctx.GetUserIDOption("vendedor")
	if sellerID == "" {
		sellerID = ctx.User().ID
	}

	data := ctx.Services().Data
	count, avg, err := data.VouchStats(ctx.GuildID(), sellerID)
	if err != nil {
		return ctx.Fail(err)
	}
	if count == 0 {
		return ctx.Reply(fmt.Sprintf("📭 <@%s> todavía no tiene vouches.", sellerID))
	}
	list, err := data.SellerVouches(ctx.GuildID(), sellerID)
	if err != nil {
		return ctx.Fail(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⭐ **Vouches de <@%s>**\n• Total: %d\n• Valoración media: %.2f/5\n", sellerID, count, avg)
	start := len(list) - recentVouches
	if start < 0 {
		start = 0
	}
	if len(list) > 0 {
		b.WriteString("\n**Recientes**")
	}
	for i := len(list) - 1; i >= start; i-- {
		v := list[i]
		fmt.Fprintf(&b, "\n#%d %s por <@%s>: %s", v.VouchNumber, strings.Repeat("⭐", v.Rating), v.VouchedByID, v.Product)
	}
	return ctx.Reply(b.String())
}
