package settings

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/bwmarrin/discordgo"
)

func createChannelCommand() *discord.Command {
	return discord.NewCommand("set", "Asigna un canal del bot", "config", channelHandler).
		WithOptions(
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "tipo",
				Description: "Para qué se usa el canal",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "tickets", Value: guildconfig.ChannelTickets},
					{Name: "vouches", Value: guildconfig.ChannelVouches},
					{Name: "logs", Value: guildconfig.ChannelLogs},
					{Name: "anuncios", Value: guildconfig.ChannelAnnouncements},
				},
			},
			&discordgo.ApplicationCommandOption{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "canal",
				Description:  "Canal (vacío para quitarlo)",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
			},
		).OwnerOnly()
}

func channelHandler(ctx *discord.CommandContext) error {
	kind := ctx.GetStringOption("tipo")
	channelID := ctx.GetChannelIDOption("canal")
	if _, err := ctx.Services().Config.SetChannel(ctx.GuildID(), kind, channelID); err != nil {
		return ctx.Fail(err)
	}
	if channelID == "" {
		return ctx.ReplyEphemeral(fmt.Sprintf("✅ Canal de %s eliminado.", kind))
	}
	ctx.LogToGuild(fmt.Sprintf("🔧 <@%s> asignó <#%s> como canal de %s", ctx.User().ID, channelID, kind))
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Canal de %s: <#%s>", kind, channelID))
}
