// Package dev holds maintenance commands registered only in the dev guild
// and usable only by the application owner.
package dev

import (
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient) {
	storageCmd := createStorageCommand()
	cacheCmd := createCacheCommand()
	reloadCmd := createReloadDefaultsCommand()

	blacklistGroup := client.CommandHandler.BuildSubcommandGroup(
		"dev",
		"blacklist",
		"Blacklist de cualquier servidor",
		createBlacklistAddCommand(),
		createBlacklistRemoveCommand(),
	)

	devGroup := &discordgo.ApplicationCommand{
		Name:        "dev",
		Description: "Comandos de desarrollo",
		Options:     []*discordgo.ApplicationCommandOption{blacklistGroup},
	}
	for _, cmd := range []*discord.Command{storageCmd, cacheCmd, reloadCmd} {
		client.Commands.Set("dev."+cmd.Name, cmd)
		devGroup.Options = append(devGroup.Options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}

	client.CommandHandler.AddDevCommand(devGroup)
}

// developer wraps run so only the application owner gets through.
func developer(run discord.CommandRunFunc) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		owner := ctx.Services().Config.AppOwnerID()
		if owner == "" || ctx.User().ID != owner {
			return ctx.ReplyEphemeral("❌ Solo el desarrollador puede usar este comando.")
		}
		return run(ctx)
	}
}
