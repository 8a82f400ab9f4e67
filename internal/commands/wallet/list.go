package wallet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
)

func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"Muestra todas las wallets guardadas",
		"wallet",
		listHandler,
	).OwnerOnly()
}

func listHandler(ctx *discord.CommandContext) error {
	wallets, err := ctx.Services().Data.ListWallets(ctx.GuildID())
	if err != nil {
		return ctx.Fail(err)
	}
	if len(wallets) == 0 {
		return ctx.ReplyEphemeral("📭 No hay wallets guardadas.")
	}

	codes := make([]string, 0, len(wallets))
	for code := range wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Wallets guardadas** (%d)", len(codes))
	for _, code := range codes {
		fmt.Fprintf(&b, "\n• **%s**: `%s`", code, wallets[code])
	}
	return ctx.ReplyEphemeral(b.String())
}
