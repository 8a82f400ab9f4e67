// Package main provides a utility to sync Discord slash commands.
// This removes stale commands from Discord and ensures only currently-defined commands are registered.
//
// Usage:
//
//	go run ./cmd/sync-commands [--list | --clean] [--guild <id>]
//
// Without --list or --clean the registered commands overwrite whatever
// Discord has. Only REST calls are made; no gateway session is opened.
package main

import (
	"fmt"
	"os"

	"github.com/PancyStudios/PancyStoreGo/internal/commands"
	"github.com/PancyStudios/PancyStoreGo/pkg/config"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/pflag"
)

func main() {
	listCmd := pflag.Bool("list", false, "Lista los comandos registrados en Discord")
	cleanCmd := pflag.Bool("clean", false, "Elimina todos los comandos sin registrar nuevos")
	guildID := pflag.String("guild", "", "Servidor objetivo (vacío para comandos globales)")
	defaultsPath := pflag.String("config", "", "Archivo de valores por defecto, usado si no hay DISCORD_TOKEN")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *defaultsPath == "" {
		*defaultsPath = cfg.AppConfig
	}

	log := logger.Init(logger.Options{ErrorWebhook: cfg.ErrorWebhook, Debug: !cfg.IsProd()})
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", "SyncCommands")

	token := cfg.BotToken
	if token == "" {
		if defaults, err := guildconfig.LoadDefaults(*defaultsPath); err == nil {
			token = defaults.Token
		}
	}
	if token == "" {
		logger.Critical("No hay token de Discord", "SyncCommands")
		os.Exit(1)
	}

	client, err := discord.NewClient(token, discord.Services{})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	me, err := client.Session.User("@me")
	if err != nil {
		logger.Critical(fmt.Sprintf("Error obteniendo la aplicación: %v", err), "SyncCommands")
		os.Exit(1)
	}
	logger.Success("Conectado como "+me.Username, "SyncCommands")

	// Register commands to know what we should have
	commands.RegisterAll(client)

	switch {
	case *listCmd:
		err = listCommands(client, me.ID, *guildID)
	case *cleanCmd:
		err = cleanCommands(client, me.ID, *guildID)
	default:
		err = syncCommands(client, me.ID, *guildID)
	}
	if err != nil {
		logger.Error(err.Error(), "SyncCommands")
		os.Exit(1)
	}

	logger.Success("Operación completada exitosamente", "SyncCommands")
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info("📋 Listando comandos registrados...", "SyncCommands")

	cmds, err := client.Session.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("obteniendo comandos: %w", err)
	}
	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", "SyncCommands")
		return nil
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
	return nil
}

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info("🧹 Eliminando todos los comandos...", "SyncCommands")
	if _, err := client.Session.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{}); err != nil {
		return fmt.Errorf("eliminando comandos: %w", err)
	}
	logger.Success("✅ Todos los comandos han sido eliminados", "SyncCommands")
	return nil
}

// syncCommands removes stale commands and registers current ones
func syncCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info("🔄 Sincronizando comandos...", "SyncCommands")
	cmds, err := client.CommandHandler.SyncCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("sincronizando comandos: %w", err)
	}
	logger.Success(fmt.Sprintf("✅ %d comandos sincronizados", len(cmds)), "SyncCommands")
	return nil
}
