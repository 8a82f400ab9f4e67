package stock

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
)

// maxReplyLen keeps replies under Discord's 2000 character limit.
const maxReplyLen = 1900

func createViewCommand() *discord.Command {
	return discord.NewCommand(
		"view",
		"Muestra el stock con los números de cada artículo",
		"stock",
		viewHandler,
	).StaffOnly()
}

func viewHandler(ctx *discord.CommandContext) error {
	data := ctx.Services().Data
	cats, err := data.StockCategories(ctx.GuildID())
	if err != nil {
		return ctx.Fail(err)
	}
	if len(cats) == 0 {
		return ctx.ReplyEphemeral("📦 El stock está vacío.")
	}
	stock, err := data.StockList(ctx.GuildID())
	if err != nil {
		return ctx.Fail(err)
	}
	return ctx.ReplyEphemeral(render("📦 **Stock actual**", cats, stock, func(i int, item string) string {
		return fmt.Sprintf("`%d.` %s", i+1, item)
	}))
}

func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"Muestra el stock disponible",
		"stock",
		listHandler,
	)
}

func listHandler(ctx *discord.CommandContext) error {
	if !ctx.Throttle(ratelimit.Command) {
		return nil
	}
	data := ctx.Services().Data
	cats, err := data.StockCategories(ctx.GuildID())
	if err != nil {
		return ctx.Fail(err)
	}
	if len(cats) == 0 {
		return ctx.ReplyEphemeral("📦 No hay stock ahora mismo. ¡Vuelve más tarde!")
	}
	stock, err := data.StockList(ctx.GuildID())
	if err != nil {
		return ctx.Fail(err)
	}
	header := "📦 **Stock disponible**\nUsa `/order` para comprar cualquiera de estos artículos."
	return ctx.Reply(render(header, cats, stock, func(_ int, item string) string {
		return "• " + item
	}))
}

func render(header string, cats []string, stock models.StockPartition, line func(int, string) string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, cat := range cats {
		section := "\n\n**" + cat + "**"
		for i, item := range stock[cat] {
			section += "\n" + line(i, item)
		}
		if b.Len()+len(section) > maxReplyLen {
			b.WriteString("\n\n…")
			break
		}
		b.WriteString(section)
	}
	return b.String()
}
