package wallet

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PancyStudios/PancyStoreGo/internal/commands/commandtest"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ltcAddress = "ltc1qexampleaddress0000"

func newHarness(t *testing.T) *commandtest.Harness {
	t.Helper()
	h := commandtest.New(t)
	RegisterWalletCommands(h.Client)
	return h
}

func TestSetAndGet(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Owner, "wallet", discordtest.Sub("set",
		discordtest.String("cripto", " ltc "),
		discordtest.String("direccion", ltcAddress)))
	assert.Contains(t, h.Last(t).Data.Content, "**LTC** guardada")

	h.Run(commandtest.Customer, "wallet", discordtest.Sub("get", discordtest.String("cripto", "Ltc")))
	reply := h.Last(t)
	assert.True(t, reply.Ephemeral())
	assert.Contains(t, reply.Data.Content, ltcAddress)
}

func TestSetRejectsShortAddress(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Owner, "wallet", discordtest.Sub("set",
		discordtest.String("cripto", "BTC"),
		discordtest.String("direccion", "short")))
	assert.Contains(t, h.Last(t).Data.Content, "inválida")

	wallets, err := h.Services().Data.ListWallets(commandtest.GuildID)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestSetIsOwnerOnly(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Staff, "wallet", discordtest.Sub("set",
		discordtest.String("cripto", "BTC"),
		discordtest.String("direccion", ltcAddress)))

	wallets, err := h.Services().Data.ListWallets(commandtest.GuildID)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestGetMissing(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Customer, "wallet", discordtest.Sub("get", discordtest.String("cripto", "eth")))
	assert.Contains(t, h.Last(t).Data.Content, "No hay dirección de ETH")
}

func TestListAndRemove(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Owner, "wallet", discordtest.Sub("list"))
	assert.Contains(t, h.Last(t).Data.Content, "No hay wallets")

	data := h.Services().Data
	_, err := data.SetWallet(commandtest.GuildID, "btc", "bc1qexampleaddress000")
	require.NoError(t, err)
	_, err = data.SetWallet(commandtest.GuildID, "ltc", ltcAddress)
	require.NoError(t, err)

	h.Run(commandtest.Owner, "wallet", discordtest.Sub("list"))
	content := h.Last(t).Data.Content
	assert.Contains(t, content, "(2)")
	assert.Less(t, strings.Index(content, "BTC"), strings.Index(content, "LTC"))

	h.Run(commandtest.Owner, "wallet", discordtest.Sub("remove", discordtest.String("cripto", "btc")))
	assert.Contains(t, h.Last(t).Data.Content, "eliminada")
	h.Run(commandtest.Owner, "wallet", discordtest.Sub("remove", discordtest.String("cripto", "btc")))
	assert.Contains(t, h.Last(t).Data.Content, "No hay dirección")
}

func TestCurrencyAutoComplete(t *testing.T) {
	h := newHarness(t)
	data := h.Services().Data
	for _, c := range []string{"btc", "ltc", "eth"} {
		_, err := data.SetWallet(commandtest.GuildID, c, ltcAddress)
		require.NoError(t, err)
	}

	i := discordtest.Command(commandtest.GuildID, commandtest.ChannelID, commandtest.Customer, "wallet",
		discordtest.Sub("get", discordtest.String("cripto", "tc")))
	i.Type = discordgo.InteractionApplicationCommandAutocomplete
	h.Dispatch(i)

	req := h.Rec.Find(http.MethodPost, "/callback")
	require.Len(t, req, 1)
	body := string(req[0].Body)
	assert.Contains(t, body, "BTC")
	assert.Contains(t, body, "LTC")
	assert.NotContains(t, body, "ETH")
}
