// Package commandtest wires a Discord client over a temporary store so
// command packages can drive interactions end to end.
package commandtest

import (
	"bytes"
	"testing"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord"
	"github.com/PancyStudios/PancyStoreGo/pkg/discord/discordtest"
	"github.com/PancyStudios/PancyStoreGo/pkg/guildconfig"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

// Fixed IDs used by every harness.
const (
	GuildID    = "42"
	ChannelID  = "1001"
	AppOwner   = "1"
	GuildOwner = "2"
	StaffRole  = "500"
)

// Harness is a client plus the recorder of its REST calls.
type Harness struct {
	Client *discord.ExtendedClient
	Rec    *discordtest.Recorder
	Clock  *Clock
}

// Clock is a settable time source shared by the limiter and ticket manager.
type Clock struct {
	now time.Time
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// New builds a harness whose guild has StaffRole configured as staff role.
func New(t testing.TB) *Harness {
	t.Helper()
	store, err := database.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	clock := &Clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	data := database.NewManagers(store, database.WithClock(clock.Now))

	defaults := models.BuiltinDefaults()
	defaults.OwnerID = AppOwner
	resolver := guildconfig.NewResolver(store, defaults)
	if _, err := resolver.SetStaffRole(GuildID, StaffRole); err != nil {
		t.Fatalf("setting staff role: %v", err)
	}

	session, rec := discordtest.NewSession(t)
	discordtest.AddGuild(t, session, GuildID, GuildOwner)

	c := discord.NewClientWithSession(session, discord.Services{
		Store:   store,
		Data:    data,
		Config:  resolver,
		Tickets: tickets.NewManager(data, tickets.WithClock(clock.Now)),
		Limiter: ratelimit.New(ratelimit.WithClock(clock.Now)),
	})
	return &Harness{Client: c, Rec: rec, Clock: clock}
}

// Services returns the storefront components of the client.
func (h *Harness) Services() discord.Services {
	return h.Client.Services
}

// Run dispatches a slash command from member in ChannelID.
func (h *Harness) Run(m discordtest.Member, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) {
	h.RunIn(ChannelID, m, name, opts...)
}

// RunIn dispatches a slash command from member in channelID.
func (h *Harness) RunIn(channelID string, m discordtest.Member, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) {
	h.Dispatch(discordtest.Command(GuildID, channelID, m, name, opts...))
}

// Press dispatches a button press from member in channelID.
func (h *Harness) Press(channelID string, m discordtest.Member, customID string) {
	h.Dispatch(discordtest.Button(GuildID, channelID, m, customID))
}

// Submit dispatches a modal submit from member in channelID.
func (h *Harness) Submit(channelID string, m discordtest.Member, customID string, fields map[string]string) {
	h.Dispatch(discordtest.Modal(GuildID, channelID, m, customID, fields))
}

// Dispatch hands any interaction to the client.
func (h *Harness) Dispatch(i *discordgo.InteractionCreate) {
	h.Client.HandleInteraction(h.Client.Session, i)
}

// Last returns the content of the last interaction reply.
func (h *Harness) Last(t testing.TB) discordtest.Reply {
	t.Helper()
	return h.Rec.LastReply(t)
}

// CaptureLogs redirects the global logger's console output into a buffer
// until the test ends.
func CaptureLogs(t testing.TB) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.Get().SetConsole(&buf)
	t.Cleanup(func() { logger.Get().SetConsole(prev) })
	return &buf
}

// Common members.
var (
	Customer = discordtest.Member{UserID: "7"}
	Staff    = discordtest.Member{UserID: "8", Roles: []string{StaffRole}}
	Owner    = discordtest.Member{UserID: GuildOwner}
)
