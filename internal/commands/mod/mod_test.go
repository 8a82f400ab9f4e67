package mod

import (
	"net/http"
	"testing"

	"github.com/PancyStudios/PancyStoreGo/internal/commands/commandtest"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord/discordtest"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const target = "77"

func newHarness(t *testing.T) *commandtest.Harness {
	t.Helper()
	h := commandtest.New(t)
	RegisterModCommands(h.Client)
	return h
}

func TestWarnRecordsWarningAndCount(t *testing.T) {
	h := newHarness(t)
	for n := 1; n <= 2; n++ {
		h.Run(commandtest.Staff, "mod", discordtest.Sub("warn",
			discordtest.User("usuario", target), discordtest.String("razon", "spam")))
	}

	list, err := h.Services().Data.ListWarnings(commandtest.GuildID, target)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, commandtest.Staff.UserID, list[0].WarnedByID)
	assert.Contains(t, h.Last(t).Data.Content, "Advertencias totales:** 2")
}

func TestWarnRequiresModerator(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Customer, "mod", discordtest.Sub("warn",
		discordtest.User("usuario", target), discordtest.String("razon", "spam")))

	assert.True(t, h.Last(t).Ephemeral())
	n, err := h.Services().Data.WarningCount(commandtest.GuildID, target)
	require.NoError(t, err)
	assert.Zero(t, n)

	modMember := discordtest.Member{UserID: "9", Perms: discordgo.PermissionManageMessages}
	h.Run(modMember, "mod", discordtest.Sub("warn",
		discordtest.User("usuario", target), discordtest.String("razon", "spam")))
	n, err = h.Services().Data.WarningCount(commandtest.GuildID, target)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWarnRejectsBots(t *testing.T) {
	h := newHarness(t)
	i := discordtest.Command(commandtest.GuildID, commandtest.ChannelID, commandtest.Staff, "mod",
		discordtest.Sub("warn", discordtest.User("usuario", "99"), discordtest.String("razon", "spam")))
	h.Dispatch(discordtest.Resolve(i, &discordgo.User{ID: "99", Bot: true}))

	assert.Contains(t, h.Last(t).Data.Content, "bot")
	n, err := h.Services().Data.WarningCount(commandtest.GuildID, "99")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWarnLogsToGuildChannel(t *testing.T) {
	h := newHarness(t)
	_, err := h.Services().Config.SetChannel(commandtest.GuildID, "logs", "555")
	require.NoError(t, err)

	h.Run(commandtest.Staff, "mod", discordtest.Sub("warn",
		discordtest.User("usuario", target), discordtest.String("razon", "spam")))
	assert.Len(t, h.Rec.Find("POST", "/channels/555/messages"), 1)
}

func TestWarningsVisibility(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.Services().Data.AddWarning(commandtest.GuildID, commandtest.Customer.UserID, "8", "spam")
	require.NoError(t, err)

	h.Run(commandtest.Customer, "mod", discordtest.Sub("warnings"))
	reply := h.Last(t)
	assert.Contains(t, reply.Data.Content, "spam")
	assert.Contains(t, reply.Data.Content, "Desconocido")

	h.Run(commandtest.Customer, "mod", discordtest.Sub("warnings", discordtest.User("usuario", target)))
	assert.Contains(t, h.Last(t).Data.Content, "No tienes permisos")

	h.Run(commandtest.Staff, "mod", discordtest.Sub("warnings", discordtest.User("usuario", commandtest.Customer.UserID)))
	assert.Contains(t, h.Last(t).Data.Content, "<@8>")
}

func TestRemoveWarn(t *testing.T) {
	h := newHarness(t)
	w, _, err := h.Services().Data.AddWarning(commandtest.GuildID, target, "8", "spam")
	require.NoError(t, err)

	h.Run(commandtest.Staff, "mod", discordtest.Sub("removewarn",
		discordtest.User("usuario", target), discordtest.String("id", "nope")))
	assert.Contains(t, h.Last(t).Data.Content, "No se encontró")

	h.Run(commandtest.Staff, "mod", discordtest.Sub("removewarn",
		discordtest.User("usuario", target), discordtest.String("id", w.ID)))
	assert.Contains(t, h.Last(t).Data.Content, "revocada")
	n, err := h.Services().Data.WarningCount(commandtest.GuildID, target)
	require.NoError(t, err)
	assert.Zero(t, n)

	history, err := h.Services().Data.WarningHistory(commandtest.GuildID, target)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Revoked)
	assert.Equal(t, commandtest.Staff.UserID, history[0].RevokedBy)

	h.Run(commandtest.Staff, "mod", discordtest.Sub("warnings", discordtest.User("usuario", target)))
	assert.Contains(t, h.Last(t).Data.Content, "no tiene advertencias")
}

func TestBlacklistRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Staff, "mod", discordtest.Sub("blacklist",
		discordtest.User("usuario", target), discordtest.String("razon", "scam")))
	assert.Contains(t, h.Last(t).Data.Content, "Solo los dueños")

	h.Run(commandtest.Owner, "mod", discordtest.Sub("blacklist",
		discordtest.User("usuario", target), discordtest.String("razon", "scam")))
	listed, err := h.Services().Data.IsBlacklisted(commandtest.GuildID, target)
	require.NoError(t, err)
	assert.True(t, listed)

	h.Run(commandtest.Owner, "mod", discordtest.Sub("unblacklist", discordtest.User("usuario", target)))
	listed, err = h.Services().Data.IsBlacklisted(commandtest.GuildID, target)
	require.NoError(t, err)
	assert.False(t, listed)

	h.Run(commandtest.Owner, "mod", discordtest.Sub("unblacklist", discordtest.User("usuario", target)))
	assert.Contains(t, h.Last(t).Data.Content, "no está en la blacklist")
}

func TestResetRateLimit(t *testing.T) {
	h := newHarness(t)
	limiter := h.Services().Limiter
	for n := 0; n < ratelimit.CreateTicket.MaxUses; n++ {
		_, err := limiter.Check(target, ratelimit.CreateTicket)
		require.NoError(t, err)
	}
	d, err := limiter.Check(target, ratelimit.CreateTicket)
	require.NoError(t, err)
	require.False(t, d.Allowed)

	h.Run(commandtest.Owner, "mod", discordtest.Sub("reset_ratelimit", discordtest.User("usuario", target)))

	d, err = limiter.Check(target, ratelimit.CreateTicket)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestKick(t *testing.T) {
	h := newHarness(t)
	_, err := h.Services().Config.SetChannel(commandtest.GuildID, "logs", "555")
	require.NoError(t, err)

	h.Run(commandtest.Customer, "mod", discordtest.Sub("kick", discordtest.User("usuario", target)))
	assert.Empty(t, h.Rec.Find(http.MethodDelete, "/members/"+target))

	h.Run(commandtest.Staff, "mod", discordtest.Sub("kick",
		discordtest.User("usuario", target), discordtest.String("razon", "spam")))
	assert.Len(t, h.Rec.Find(http.MethodDelete, "/guilds/42/members/"+target), 1)
	assert.Contains(t, h.Last(t).Data.Content, "expulsado")
	logged := h.Rec.Find(http.MethodPost, "/channels/555/messages")
	require.Len(t, logged, 1)
	assert.Contains(t, string(logged[0].Body), "expulsó")
}

func TestBanBlacklistsAndBans(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Staff, "mod", discordtest.Sub("ban",
		discordtest.User("usuario", target), discordtest.Int("dias", 3)))

	assert.Len(t, h.Rec.Find(http.MethodPut, "/guilds/42/bans/"+target), 1)
	content := h.Last(t).Data.Content
	assert.Contains(t, content, "Sin razón especificada")
	assert.Contains(t, content, "3 días")

	entry, err := h.Services().Data.BlacklistEntryFor(commandtest.GuildID, target)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, commandtest.Staff.UserID, entry.AddedBy)
}

func TestBanReportsMissingPermission(t *testing.T) {
	h := newHarness(t)
	h.Rec.FailOn(http.MethodPut, "/bans/"+target, http.StatusForbidden)

	h.Run(commandtest.Staff, "mod", discordtest.Sub("ban", discordtest.User("usuario", target)))
	reply := h.Last(t)
	assert.True(t, reply.Ephemeral())
	assert.Contains(t, reply.Data.Content, "No tengo permisos para banear")
}

func TestTimeoutUsesClock(t *testing.T) {
	h := newHarness(t)
	h.Run(commandtest.Staff, "mod", discordtest.Sub("timeout",
		discordtest.User("usuario", target), discordtest.Int("duracion", 90)))

	edits := h.Rec.Find(http.MethodPatch, "/guilds/42/members/"+target)
	require.Len(t, edits, 1)
	assert.Contains(t, string(edits[0].Body), "2024-05-01T13:30:00Z")
	assert.Contains(t, h.Last(t).Data.Content, "silenciado")
}

func TestSanctionsProtectOwnersAndSelf(t *testing.T) {
	h := newHarness(t)
	for _, sub := range []string{"kick", "ban", "timeout"} {
		h.Run(commandtest.Staff, "mod", discordtest.Sub(sub,
			discordtest.User("usuario", commandtest.GuildOwner), discordtest.Int("duracion", 5)))
		assert.Contains(t, h.Last(t).Data.Content, "dueño", sub)

		h.Run(commandtest.Staff, "mod", discordtest.Sub(sub,
			discordtest.User("usuario", commandtest.Staff.UserID), discordtest.Int("duracion", 5)))
		assert.Contains(t, h.Last(t).Data.Content, "a ti mismo", sub)
	}
	assert.Empty(t, h.Rec.Find(http.MethodPut, "/bans/"))
	assert.Empty(t, h.Rec.Find(http.MethodDelete, "/members/"))
	assert.Empty(t, h.Rec.Find(http.MethodPatch, "/members/"))

	i := discordtest.Command(commandtest.GuildID, commandtest.ChannelID, commandtest.Staff, "mod",
		discordtest.Sub("kick", discordtest.User("usuario", "99")))
	h.Dispatch(discordtest.Resolve(i, &discordgo.User{ID: "99", Bot: true}))
	assert.Contains(t, h.Last(t).Data.Content, "bot")
	assert.Empty(t, h.Rec.Find(http.MethodDelete, "/members/99"))
}

func TestWarnLogsClosedDMs(t *testing.T) {
	h := newHarness(t)
	logs := commandtest.CaptureLogs(t)
	h.Rec.FailOn(http.MethodPost, "/messages", http.StatusForbidden)

	h.Run(commandtest.Staff, "mod", discordtest.Sub("warn",
		discordtest.User("usuario", target), discordtest.String("razon", "spam")))
	assert.Contains(t, logs.String(), "No se pudo enviar el DM a "+target)
}
