// Package main is the entry point for the PancyStore Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyStoreGo/internal/commands"
	"github.com/PancyStudios/PancyStoreGo/internal/events"
	"github.com/PancyStudios/PancyStoreGo/pkg/config"
	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/errors"
	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/mqtt"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
	"github.com/PancyStudios/PancyStoreGo/pkg/web"
)

const (
	pruneInterval = 5 * time.Minute
	// longestWindow covers every policy in ratelimit.
	longestWindow = 300 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyFlags(os.Args[1:]); err != nil {
		fmt.Printf("Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	// Initialize logger
	log := logger.Init(logger.Options{
		Dir:          cfg.LogDir,
		ErrorWebhook: cfg.ErrorWebhook,
		LogsWebhook:  cfg.LogsWebhook,
		Debug:        !cfg.IsProd(),
	})
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando PancyStore Go %s (%s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		cancel()
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
			}
		}
	})

	// Initialize storage
	store, err := database.Init(cfg.DataDir)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error inicializando el almacenamiento en %s: %v", cfg.DataDir, err), "Main")
		os.Exit(1)
	}
	data := database.InitGlobalDataManagers(store)

	defaults, err := guildconfig.LoadDefaults(cfg.AppConfig)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error leyendo %s: %v", cfg.AppConfig, err), "Main")
		os.Exit(1)
	}
	resolver := guildconfig.NewResolver(store, defaults, guildconfig.WithDefaultsPath(cfg.AppConfig))

	limiter := ratelimit.New()
	limiter.Start(ctx, pruneInterval, longestWindow)

	// Initialize MQTT
	var ticketOpts []tickets.Option
	var mqttClient *mqtt.MqttCommunicator
	if cfg.MQTTEnabled() {
		mqttClientID := "pancystore"
		if !cfg.IsProd() {
			mqttClientID = "pancystore_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
		defer mqttClient.Destroy()
		ticketOpts = append(ticketOpts, tickets.WithPublisher(mqttClient))
	} else {
		logger.Info("MQTT desactivado (MQTT_HOST vacío)", "Main")
	}

	ticketManager := tickets.NewManager(data, ticketOpts...)
	if mqttClient != nil {
		if err := mqtt.RegisterTicketQueries(mqttClient, ticketManager); err != nil {
			logger.Error(fmt.Sprintf("Error registrando consultas MQTT: %v", err), "Main")
		}
	}

	// Initialize Discord client
	token := cfg.BotToken
	if token == "" {
		token = defaults.Token
	}
	if token == "" {
		logger.Critical("No hay token de Discord (DISCORD_TOKEN o token en "+cfg.AppConfig+")", "Main")
		os.Exit(1)
	}
	discordClient, err = discord.Init(token, discord.Services{
		Store:   store,
		Data:    data,
		Config:  resolver,
		Tickets: ticketManager,
		Limiter: limiter,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize web server
	webServer := web.Init(web.Options{WebhookURL: cfg.LogsWebhook, Limiter: limiter})
	web.SetupAPIRoutes(webServer, web.Deps{Store: store, Tickets: ticketManager, Bot: discordClient})
	webServer.StartAsync(cfg.Port)

	// Register commands using the commands package
	commands.RegisterAll(discordClient)

	// Register events using the events package
	events.RegisterAll(discordClient)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("PancyStore Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyStore Go...", "Main")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(fmt.Sprintf("Error apagando el servidor web: %v", err), "Main")
	}
	if err := discordClient.Stop(); err != nil {
		logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
