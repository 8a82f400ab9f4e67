// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyStoreGo/pkg/config"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client           *ExtendedClient
	slashCommands    []*discordgo.ApplicationCommand
	slashCommandsDev []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:           client,
		slashCommands:    make([]*discordgo.ApplicationCommand, 0),
		slashCommandsDev: make([]*discordgo.ApplicationCommand, 0),
	}
}

// LoadCommands reports what was registered programmatically before Start.
func (ch *CommandHandler) LoadCommands() error {
	logger.System("Iniciando carga de comandos...", "CommandHandler")

	if ch.client.Commands.Size() == 0 {
		logger.Warn("No hay comandos registrados.", "CommandHandler")
	}

	logger.System(fmt.Sprintf("Carga finalizada: %d comandos, %d componentes.",
		ch.client.Commands.Size(), ch.client.Components.Size()), "CommandHandler")
	return nil
}

// RegisterCommand adds a command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)

	appCmd := cmd.ToApplicationCommand()

	if cmd.IsDev {
		ch.slashCommandsDev = append(ch.slashCommandsDev, appCmd)
	} else {
		ch.slashCommands = append(ch.slashCommands, appCmd)
	}

	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// RegisterComponent adds a message component handler.
func (ch *CommandHandler) RegisterComponent(comp *Component) {
	ch.client.Components.Set(comp)
}

// BuildCommandGroup creates a command group with subcommands. Each
// subcommand keeps its own Access.
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)

		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		}
		options = append(options, opt)
	}

	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	}
}

// BuildSubcommandGroup creates a subcommand group
func (ch *CommandHandler) BuildSubcommandGroup(groupName, name, description string, subcommands ...*Command) *discordgo.ApplicationCommandOption {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))

	for _, cmd := range subcommands {
		fullName := groupName + "." + name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)

		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		}
		options = append(options, opt)
	}

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

// RegisterCommands registers all slash commands with Discord
func (ch *CommandHandler) RegisterCommands() {
	cfg := config.Get()
	appID := ch.client.Session.State.User.ID

	logger.Info("🔄 Registrando comandos globales...", "CommandHandler")
	if cmds, err := ch.SyncCommands(appID, ""); err != nil {
		logger.Error("Error registrando comandos globales: "+err.Error(), "CommandHandler")
	} else {
		logger.Success(fmt.Sprintf("✅ %d comandos globales registrados.", len(cmds)), "CommandHandler")
	}

	// Register dev commands in dev guild
	if cfg.DevGuildID != "" && len(ch.slashCommandsDev) > 0 {
		logger.Info("🔄 Registrando comandos de desarrollo en el servidor "+cfg.DevGuildID+"...", "CommandHandler")
		if _, err := ch.SyncCommands(appID, cfg.DevGuildID); err != nil {
			logger.Error("Error registrando comandos de desarrollo: "+err.Error(), "CommandHandler")
			return
		}
		logger.Success("✅ Comandos de desarrollo registrados.", "CommandHandler")
	}
}

// SyncCommands overwrites the commands Discord knows for the application
// with the registered ones, dropping stale commands. An empty guildID
// targets global commands; otherwise the dev commands go to that guild.
func (ch *CommandHandler) SyncCommands(appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	cmds := ch.GlobalCommands()
	if guildID != "" {
		cmds = ch.DevCommands()
	}
	return ch.client.Session.ApplicationCommandBulkOverwrite(appID, guildID, cmds)
}

// GlobalCommands returns the commands registered for every guild.
func (ch *CommandHandler) GlobalCommands() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand{}, ch.slashCommands...)
}

// DevCommands returns the commands registered only in the dev guild.
func (ch *CommandHandler) DevCommands() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand{}, ch.slashCommandsDev...)
}

// AddGlobalCommand adds a command to the global command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// AddDevCommand adds a command to the dev command list
func (ch *CommandHandler) AddDevCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommandsDev = append(ch.slashCommandsDev, cmd)
}
