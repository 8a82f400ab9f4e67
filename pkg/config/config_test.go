package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("PORT", "3001")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATA_DIR", "/var/lib/storefront")

	resetForTesting()

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", config.BotToken)
	assert.Equal(t, "3001", config.Port)
	assert.Equal(t, "test", config.Environment)
	assert.Equal(t, "/var/lib/storefront", config.DataDir)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	assert.Equal(t, "test-value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	t.Setenv("ENVIRONMENT", "PROD")
	config, _ := Load()
	assert.True(t, config.IsProd())

	resetForTesting()
	t.Setenv("ENVIRONMENT", "dev")
	config, _ = Load()
	assert.False(t, config.IsProd())
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	require.NotNil(t, config)

	// Get should return the same config on subsequent calls
	assert.Same(t, config, Get())
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{"DISCORD_TOKEN", "DEV_GUILD_ID", "DATA_DIR", "APP_CONFIG", "LOG_DIR", "MQTT_HOST", "MQTT_PORT", "PORT", "ENVIRONMENT"} {
		t.Setenv(key, "")
	}

	resetForTesting()
	config, _ := Load()

	assert.Equal(t, "data", config.DataDir)
	assert.Equal(t, "config.json", config.AppConfig)
	assert.Equal(t, "logs", config.LogDir)
	assert.Equal(t, "", config.MQTTHost)
	assert.False(t, config.MQTTEnabled())
	assert.Equal(t, "1883", config.MQTTPort)
	assert.Equal(t, "3000", config.Port)
	assert.Equal(t, "dev", config.Environment)
}

func TestApplyFlags(t *testing.T) {
	c := &Config{DataDir: "data", AppConfig: "config.json", Port: "3000", Environment: "dev"}

	require.NoError(t, c.ApplyFlags([]string{"--data-dir", "/srv/store", "--env=PROD", "--port", "8080"}))
	assert.Equal(t, "/srv/store", c.DataDir)
	assert.Equal(t, "config.json", c.AppConfig)
	assert.Equal(t, "8080", c.Port)
	assert.True(t, c.IsProd())

	assert.Error(t, c.ApplyFlags([]string{"--unknown"}))
}
