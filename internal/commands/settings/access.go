package settings

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createStaffRoleCommand() *discord.Command {
	return discord.NewCommand("staff_role", "Define el rol de staff", "config", staffRoleHandler).
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "rol",
			Description: "Rol de staff (vacío para quitarlo)",
		}).OwnerOnly()
}

func staffRoleHandler(ctx *discord.CommandContext) error {
	roleID := ctx.GetRoleIDOption("rol")
	if _, err := ctx.Services().Config.SetStaffRole(ctx.GuildID(), roleID); err != nil {
		return ctx.Fail(err)
	}
	if roleID == "" {
		ctx.LogToGuild(fmt.Sprintf("🔧 <@%s> quitó el rol de staff", ctx.User().ID))
		return ctx.ReplyEphemeral("✅ Rol de staff eliminado.")
	}
	ctx.LogToGuild(fmt.Sprintf("🔧 <@%s> cambió el rol de staff a <@&%s>", ctx.User().ID, roleID))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Rol de staff: <@&%s>", roleID))
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: description,
		Required:    true,
	}
}

func createAddOwnerCommand() *discord.Command {
	return discord.NewCommand("add_owner", "Añade un dueño del bot en este servidor", "config", addOwnerHandler).
		WithOptions(userOption("Nuevo dueño")).OwnerOnly()
}

func addOwnerHandler(ctx *discord.CommandContext) error {
	userID := ctx.GetUserIDOption("usuario")
	if u := ctx.ResolvedUser(userID); u != nil && u.Bot {
		return ctx.ReplyEphemeral("❌ Un bot no puede ser dueño.")
	}
	added, err := ctx.Services().Config.AddOwner(ctx.GuildID(), userID)
	if err != nil {
		return ctx.Fail(err)
	}
	if !added {
		return ctx.ReplyEphemeral(fmt.Sprintf("ℹ️ <@%s> ya es dueño.", userID))
	}
	ctx.LogToGuild(fmt.Sprintf("🔧 <@%s> añadió a <@%s> como dueño", ctx.User().ID, userID))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ <@%s> ahora es dueño.", userID))
}

func createRemoveOwnerCommand() *discord.Command {
	return discord.NewCommand("remove_owner", "Quita un dueño del bot en este servidor", "config", removeOwnerHandler).
		WithOptions(userOption("Dueño a quitar")).OwnerOnly()
}

func removeOwnerHandler(ctx *discord.CommandContext) error {
	userID := ctx.GetUserIDOption("usuario")
	removed, err := ctx.Services().Config.RemoveOwner(ctx.GuildID(), userID)
	if err != nil {
		return ctx.Fail(err)
	}
	if !removed {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ <@%s> no está en la lista de dueños.", userID))
	}
	ctx.LogToGuild(fmt.Sprintf("🔧 <@%s> quitó a <@%s> de los dueños", ctx.User().ID, userID))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ <@%s> ya no es dueño.", userID))
}
