package settings

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func createToggleCommand() *discord.Command {
	return discord.NewCommand("toggle", "Activa o desactiva un tipo de ticket", "config", toggleHandler).
		WithOptions(
			ticketTypeOption(),
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "activo",
				Description: "Si los usuarios pueden abrir este tipo de ticket",
				Required:    true,
			},
		).OwnerOnly()
}

func toggleHandler(ctx *discord.CommandContext) error {
	t := models.TicketType(ctx.GetStringOption("tipo"))
	enabled := ctx.GetBoolOption("activo")
	if _, err := ctx.Services().Config.SetCategoryEnabled(ctx.GuildID(), t, enabled); err != nil {
		return ctx.Fail(err)
	}
	state := "activada"
	if !enabled {
		state = "desactivada"
	}
	ctx.LogToGuild(fmt.Sprintf("🎫 <@%s> dejó la categoría %s %s", ctx.User().ID, t, state))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Categoría **%s** %s.", t, state))
}

func createCategoryCommand() *discord.Command {
	return discord.NewCommand("category", "Categoría de Discord donde se crean los tickets", "config", categoryHandler).
		WithOptions(
			ticketTypeOption(),
			&discordgo.ApplicationCommandOption{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "categoria",
				Description:  "Categoría (vacío para crear los tickets sin categoría)",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
			},
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "nombre",
				Description: "Nombre visible del tipo de ticket",
				MaxLength:   100,
			},
		).OwnerOnly()
}

func categoryHandler(ctx *discord.CommandContext) error {
	t := models.TicketType(ctx.GetStringOption("tipo"))
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return ctx.Fail(err)
	}
	c := cfg.Category(t)
	c.CategoryID = models.FlexibleID(ctx.GetChannelIDOption("categoria"))
	if ctx.HasOption("nombre") {
		c.Name = ctx.GetStringOption("nombre")
	}
	if _, err := ctx.Services().Config.UpdateCategory(ctx.GuildID(), t, c); err != nil {
		return ctx.Fail(err)
	}
	if c.CategoryID == "" {
		return ctx.ReplyEphemeral(fmt.Sprintf("✅ Los tickets **%s** se crearán sin categoría.", t))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Los tickets **%s** se crearán en <#%s>.", t, c.CategoryID))
}
