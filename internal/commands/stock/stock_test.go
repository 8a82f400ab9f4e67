package stock

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

func newHarness(t *testing.T) *commandtest.Harness {
	t.Helper()
	h := commandtest.New(t)
	RegisterStockCommands(h.Client)
	return h
}

func add(t *testing.T, h *commandtest.Harness, category, item string) {
	t.Helper()
	_, _, err := h.Services().Data.AddStock(commandtest.GuildID, category, item)
	require.NoError(t, err)
}

func TestAddIsStaffOnly(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Customer, "stock", discordtest.Sub("add",
		discordtest.String("categoria", "cuentas"),
		discordtest.String("articulo", "VIP+ lifetime")))

	stock, err := h.Services().Data.StockList(commandtest.GuildID)
	require.NoError(t, err)
	assert.Empty(t, stock)

	h.Run(commandtest.Staff, "stock", discordtest.Sub("add",
		discordtest.String("categoria", "cuentas"),
		discordtest.String("articulo", "VIP+ lifetime")))
	reply := h.Last(t)
	assert.True(t, reply.Ephemeral())
	assert.Contains(t, reply.Data.Content, "**Cuentas** como `#1`")

	stock, err = h.Services().Data.StockList(commandtest.GuildID)
	require.NoError(t, err)
	assert.Equal(t, []string{"VIP+ lifetime"}, stock["Cuentas"])
}

func TestRemoveByNumber(t *testing.T) {
	h := newHarness(t)
	add(t, h, "Cuentas", "first")
	add(t, h, "Cuentas", "second")

	h.Run(commandtest.Staff, "stock", discordtest.Sub("remove",
		discordtest.String("categoria", "cuentas"),
		discordtest.Int("numero", 3)))
	assert.Contains(t, h.Last(t).Data.Content, "inválido")

	h.Run(commandtest.Staff, "stock", discordtest.Sub("remove",
		discordtest.String("categoria", "mfa"),
		discordtest.Int("numero", 1)))
	assert.Contains(t, h.Last(t).Data.Content, "no existe")

	h.Run(commandtest.Staff, "stock", discordtest.Sub("remove",
		discordtest.String("categoria", "cuentas"),
		discordtest.Int("numero", 1)))
	assert.Contains(t, h.Last(t).Data.Content, "`first`")

	stock, err := h.Services().Data.StockList(commandtest.GuildID)
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, stock["Cuentas"])
}

func TestClearIsOwnerOnly(t *testing.T) {
	h := newHarness(t)
	add(t, h, "Coins", "5k coins")

	h.Run(commandtest.Staff, "stock", discordtest.Sub("clear", discordtest.String("categoria", "coins")))
	stock, err := h.Services().Data.StockList(commandtest.GuildID)
	require.NoError(t, err)
	assert.Len(t, stock["Coins"], 1)

	h.Run(commandtest.Owner, "stock", discordtest.Sub("clear", discordtest.String("categoria", "coins")))
	assert.Contains(t, h.Last(t).Data.Content, "vaciada")
	stock, err = h.Services().Data.StockList(commandtest.GuildID)
	require.NoError(t, err)
	assert.Empty(t, stock)
}

func TestViewNumbersItems(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Staff, "stock", discordtest.Sub("view"))
	assert.Contains(t, h.Last(t).Data.Content, "vacío")

	add(t, h, "MFA", "mfa one")
	add(t, h, "Cuentas", "acc one")
	add(t, h, "Cuentas", "acc two")

	h.Run(commandtest.Staff, "stock", discordtest.Sub("view"))
	reply := h.Last(t)
	assert.True(t, reply.Ephemeral())
	content := reply.Data.Content
	assert.Contains(t, content, "`2.` acc two")
	assert.Less(t, strings.Index(content, "Cuentas"), strings.Index(content, "Mfa"))
}

func TestListIsPublic(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Customer, "stock", discordtest.Sub("list"))
	assert.Contains(t, h.Last(t).Data.Content, "No hay stock")

	add(t, h, "Cuentas", "acc one")
	h.Run(commandtest.Customer, "stock", discordtest.Sub("list"))
	reply := h.Last(t)
	assert.False(t, reply.Ephemeral())
	assert.Contains(t, reply.Data.Content, "• acc one")
	assert.Contains(t, reply.Data.Content, "/order")
	assert.NotContains(t, reply.Data.Content, "`1.`")
}

func TestCategoryAutoComplete(t *testing.T) {
	h := newHarness(t)
	add(t, h, "Cuentas", "acc")
	add(t, h, "Coins", "5k")
	add(t, h, "MFA", "mfa")

	i := discordtest.Command(commandtest.GuildID, commandtest.ChannelID, commandtest.Staff, "stock",
		discordtest.Sub("remove", discordtest.String("categoria", "c")))
	i.Type = discordgo.InteractionApplicationCommandAutocomplete
	h.Dispatch(i)

	req := h.Rec.Find(http.MethodPost, "/callback")
	require.Len(t, req, 1)
	body := string(req[0].Body)
	assert.Contains(t, body, "Cuentas")
	assert.Contains(t, body, "Coins")
	assert.NotContains(t, body, "Mfa")
}
