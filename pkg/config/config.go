// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string
	DevGuildID string

	// Storage
	DataDir   string
	AppConfig string
	LogDir    string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook string
	LogsWebhook  string
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:   getEnv("DISCORD_TOKEN", ""),
		DevGuildID: getEnv("DEV_GUILD_ID", ""),

		// Storage
		DataDir:   getEnv("DATA_DIR", "data"),
		AppConfig: getEnv("APP_CONFIG", "config.json"),
		LogDir:    getEnv("LOG_DIR", "logs"),

		// MQTT
		MQTTHost:     getEnv("MQTT_HOST", ""),
		MQTTPort:     getEnv("MQTT_PORT", "1883"),
		MQTTUser:     getEnv("MQTT_USER", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		// Web Server
		Port: getEnv("PORT", "3000"),

		// Environment
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "dev")),

		// Webhooks
		ErrorWebhook: getEnv("ERROR_WEBHOOK", ""),
		LogsWebhook:  getEnv("LOGS_WEBHOOK", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// ApplyFlags overrides values with command line flags, which win over the
// environment.
func (c *Config) ApplyFlags(args []string) error {
	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directorio de las colecciones JSON")
	fs.StringVar(&c.AppConfig, "config", c.AppConfig, "archivo con los valores por defecto")
	fs.StringVar(&c.LogDir, "log-dir", c.LogDir, "directorio de logs (vacío para desactivar)")
	fs.StringVar(&c.Port, "port", c.Port, "puerto del servidor HTTP")
	fs.StringVar(&c.Environment, "env", c.Environment, "entorno (dev o prod)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Environment = strings.ToLower(c.Environment)
	return nil
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// MQTTEnabled reports whether a broker was configured.
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}
