// Package discord provides the event handler for managing Discord events.
package discord

import (
	"strconv"
	"sync"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler manages event loading and registration
type EventHandler struct {
	client *ExtendedClient
	events []interface{}
	mu     sync.RWMutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		events: make([]interface{}, 0),
	}
}

// LoadEvents reports the handlers registered before Start.
func (eh *EventHandler) LoadEvents() error {
	logger.System("Iniciando carga de eventos...", "EventHandler")
	logger.System("Carga finalizada. Eventos registrados: "+strconv.Itoa(eh.Count()), "EventHandler")
	return nil
}

// RegisterEvent adds an event handler to the Discord session. discordgo
// matches handlers by their exact func type, so named handler types must be
// converted before they get here.
func (eh *EventHandler) RegisterEvent(handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.events = append(eh.events, handler)
	eh.mu.Unlock()
}

// Count returns how many handlers were registered.
func (eh *EventHandler) Count() int {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return len(eh.events)
}

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// GuildCreateHandler is called when the bot joins a guild
type GuildCreateHandler func(s *discordgo.Session, g *discordgo.GuildCreate)

// GuildDeleteHandler is called when the bot leaves a guild
type GuildDeleteHandler func(s *discordgo.Session, g *discordgo.GuildDelete)

// ChannelDeleteHandler is called when a channel is deleted
type ChannelDeleteHandler func(s *discordgo.Session, c *discordgo.ChannelDelete)

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.Ready))(handler))
	logger.Debug("Evento 'Ready' registrado", "EventHandler")
}

// OnGuildCreate registers a guild create event handler
func (eh *EventHandler) OnGuildCreate(handler GuildCreateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.GuildCreate))(handler))
	logger.Debug("Evento 'GuildCreate' registrado", "EventHandler")
}

// OnGuildDelete registers a guild delete event handler
func (eh *EventHandler) OnGuildDelete(handler GuildDeleteHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.GuildDelete))(handler))
	logger.Debug("Evento 'GuildDelete' registrado", "EventHandler")
}

// OnChannelDelete registers a channel delete event handler
func (eh *EventHandler) OnChannelDelete(handler ChannelDeleteHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.ChannelDelete))(handler))
	logger.Debug("Evento 'ChannelDelete' registrado", "EventHandler")
}
