package mod

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const noReason = "Sin razón especificada"

func userOption(desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: desc,
		Required:    true,
	}
}

func reasonOption(desc string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: desc,
		MaxLength:   500,
	}
}

func reasonOrDefault(ctx *discord.CommandContext) string {
	if r := ctx.GetStringOption("razon"); r != "" {
		return r
	}
	return noReason
}

// sanctionTarget validates the user a kick, ban or timeout is aimed at. It
// answers the interaction itself and returns "" when the action must stop.
// Only owners may act on other owners.
func sanctionTarget(ctx *discord.CommandContext, verb string) (string, error) {
	targetID := ctx.GetUserIDOption("usuario")
	if targetID == "" {
		return "", ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if u := ctx.ResolvedUser(targetID); u != nil && u.Bot {
		return "", ctx.ReplyEphemeral(fmt.Sprintf("❌ No puedes %s a un bot.", verb))
	}
	if targetID == ctx.User().ID {
		return "", ctx.ReplyEphemeral(fmt.Sprintf("❌ No puedes %ste a ti mismo.", verb))
	}

	owner, err := ctx.IsOwner()
	if err != nil {
		return "", ctx.Fail(err)
	}
	if owner {
		return targetID, nil
	}
	cfg, err := ctx.GuildConfig()
	if err != nil {
		return "", ctx.Fail(err)
	}
	guildOwner := ""
	if g := ctx.Guild(); g != nil {
		guildOwner = g.OwnerID
	}
	if guildconfig.IsOwner(ctx.Services().Config.AppOwnerID(), cfg, targetID, guildOwner) {
		return "", ctx.ReplyEphemeral(fmt.Sprintf("❌ No puedes %s a un dueño de la tienda.", verb))
	}
	return targetID, nil
}

// sanctionFailed reports a rejected Discord call to the moderator.
func sanctionFailed(ctx *discord.CommandContext, verb, targetID string, err error) error {
	logger.Warn(fmt.Sprintf("No se pudo %s a %s: %v", verb, targetID, err), "Mod")
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No tengo permisos para %s a este usuario.", verb))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al %s: %v", verb, err))
}
