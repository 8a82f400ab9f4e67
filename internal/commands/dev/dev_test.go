package dev

import (
	"testing"

	"github.com/PancyStudios/PancyStoreGo/internal/commands/commandtest"
	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appOwner = discordtest.Member{UserID: commandtest.AppOwner}

func newHarness(t *testing.T) *commandtest.Harness {
	t.Helper()
	h := commandtest.New(t)
	Register(h.Client)
	return h
}

func blacklistCmd(h *commandtest.Harness, m discordtest.Member, sub string, opts ...*discordgo.ApplicationCommandInteractionDataOption) {
	h.Run(m, "dev", &discordgo.ApplicationCommandInteractionDataOption{
		Name:    "blacklist",
		Type:    discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{discordtest.Sub(sub, opts...)},
	})
}

func TestRegisterOnlyInDevGuild(t *testing.T) {
	h := newHarness(t)
	assert.Empty(t, h.Client.CommandHandler.GlobalCommands())

	dev := h.Client.CommandHandler.DevCommands()
	require.Len(t, dev, 1)
	assert.Equal(t, "dev", dev[0].Name)
	assert.Len(t, dev[0].Options, 4)

	for _, key := range []string{"dev.storage", "dev.cache", "dev.reload_defaults", "dev.blacklist.add", "dev.blacklist.remove"} {
		_, ok := h.Client.Commands.Get(key)
		assert.True(t, ok, key)
	}
}

func TestOnlyAppOwner(t *testing.T) {
	h := newHarness(t)

	h.Run(commandtest.Customer, "dev", discordtest.Sub("storage"))
	assert.Contains(t, h.Last(t).Data.Content, "dueños")

	h.Run(commandtest.Owner, "dev", discordtest.Sub("storage"))
	reply := h.Last(t)
	assert.True(t, reply.Ephemeral())
	assert.Contains(t, reply.Data.Content, "desarrollador")
}

func TestStorage(t *testing.T) {
	h := newHarness(t)
	h.Run(appOwner, "dev", discordtest.Sub("storage"))

	reply := h.Last(t)
	assert.True(t, reply.Ephemeral())
	assert.Contains(t, reply.Data.Content, "🟢 | En linea")
	assert.Contains(t, reply.Data.Content, "Claves en el limitador: 0")
}

func TestCacheKeepsData(t *testing.T) {
	h := newHarness(t)
	_, err := h.Services().Data.SetWallet(commandtest.GuildID, "BTC", "bc1qxyz0123456")
	require.NoError(t, err)

	h.Run(appOwner, "dev", discordtest.Sub("cache"))
	assert.Contains(t, h.Last(t).Data.Content, "Caché recargada")

	addr, err := h.Services().Data.Wallet(commandtest.GuildID, "BTC")
	require.NoError(t, err)
	assert.Equal(t, "bc1qxyz0123456", addr)
}

func TestReloadDefaultsWithoutFile(t *testing.T) {
	h := newHarness(t)
	h.Run(appOwner, "dev", discordtest.Sub("reload_defaults"))
	assert.Contains(t, h.Last(t).Data.Content, "No se pudieron recargar")
}

func TestBlacklistAnyGuild(t *testing.T) {
	h := newHarness(t)
	blacklistCmd(h, appOwner, "add",
		discordtest.String("servidor", "77"),
		discordtest.String("usuario", "9"),
		discordtest.String("razon", "fraude"))
	assert.Contains(t, h.Last(t).Data.Content, "bloqueado en `77`")

	entry, err := h.Services().Data.BlacklistEntryFor("77", "9")
	require.NoError(t, err)
	assert.Equal(t, "fraude", entry.Reason)
	assert.Equal(t, commandtest.AppOwner, entry.AddedBy)

	blacklistCmd(h, appOwner, "remove",
		discordtest.String("servidor", "77"),
		discordtest.String("usuario", "9"))
	assert.Contains(t, h.Last(t).Data.Content, "desbloqueado")
	_, err = h.Services().Data.BlacklistEntryFor("77", "9")
	assert.ErrorIs(t, err, database.ErrBlacklistEntryNotFound)

	blacklistCmd(h, appOwner, "remove",
		discordtest.String("servidor", "77"),
		discordtest.String("usuario", "9"))
	assert.Contains(t, h.Last(t).Data.Content, "no estaba")
}

func TestBlacklistAddNeedsReason(t *testing.T) {
	h := newHarness(t)
	blacklistCmd(h, appOwner, "add",
		discordtest.String("servidor", "77"),
		discordtest.String("usuario", "9"),
		discordtest.String("razon", "  "))
	assert.Contains(t, h.Last(t).Data.Content, "razón")
}
