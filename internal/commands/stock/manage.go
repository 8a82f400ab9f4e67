package stock

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createAddCommand() *discord.Command {
	return discord.NewCommand(
		"add",
		"Añade un artículo al stock",
		"stock",
		addHandler,
	).WithOptions(
		categoryOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "articulo",
			Description: "Descripción del artículo",
			Required:    true,
			MaxLength:   200,
		},
	).StaffOnly().WithAutoComplete(storedCategories)
}

func addHandler(ctx *discord.CommandContext) error {
	cat, n, err := ctx.Services().Data.AddStock(ctx.GuildID(), ctx.GetStringOption("categoria"), ctx.GetStringOption("articulo"))
	if errors.Is(err, database.ErrInvalidStock) {
		return ctx.ReplyEphemeral("❌ Indica una categoría y un artículo de hasta 200 caracteres.")
	}
	if err != nil {
		return ctx.Fail(err)
	}
	ctx.LogToGuild(fmt.Sprintf("📦 <@%s> añadió stock en **%s** (#%d)", ctx.User().ID, cat, n))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Añadido a **%s** como `#%d`.", cat, n))
}

var minNumber = 1.0

func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Quita un artículo del stock por su número",
		"stock",
		removeHandler,
	).WithOptions(
		categoryOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "numero",
			Description: "Número del artículo (ver /stock view)",
			Required:    true,
			MinValue:    &minNumber,
		},
	).StaffOnly().WithAutoComplete(storedCategories)
}

func removeHandler(ctx *discord.CommandContext) error {
	cat, removed, err := ctx.Services().Data.RemoveStock(ctx.GuildID(), ctx.GetStringOption("categoria"), int(ctx.GetIntOption("numero")))
	switch {
	case errors.Is(err, database.ErrStockCategoryNotFound):
		return ctx.ReplyEphemeral("❌ Esa categoría no existe.")
	case errors.Is(err, database.ErrStockIndexOutOfRange):
		return ctx.ReplyEphemeral("❌ Número de artículo inválido.")
	case err != nil:
		return ctx.Fail(err)
	}
	ctx.LogToGuild(fmt.Sprintf("📦 <@%s> quitó de **%s**: %s", ctx.User().ID, cat, removed))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Quitado de **%s**: `%s`", cat, removed))
}

func createClearCommand() *discord.Command {
	return discord.NewCommand(
		"clear",
		"Vacía una categoría entera",
		"stock",
		clearHandler,
	).WithOptions(categoryOption()).OwnerOnly().WithAutoComplete(storedCategories)
}

func clearHandler(ctx *discord.CommandContext) error {
	cat, n, err := ctx.Services().Data.ClearStock(ctx.GuildID(), ctx.GetStringOption("categoria"))
	if errors.Is(err, database.ErrStockCategoryNotFound) {
		return ctx.ReplyEphemeral("❌ Esa categoría no existe.")
	}
	if err != nil {
		return ctx.Fail(err)
	}
	ctx.LogToGuild(fmt.Sprintf("📦 <@%s> vació la categoría **%s** (%d artículos)", ctx.User().ID, cat, n))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Categoría **%s** vaciada.", cat))
}
