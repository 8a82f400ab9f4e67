// Package tickets implements the ticket lifecycle: a ticket is created open
// for one channel and closed exactly once. Authorization is left to callers.
package tickets

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
)

var (
	ErrDuplicateTicket   = errors.New("ya existe un ticket para este canal")
	ErrNotFound          = errors.New("ticket no encontrado")
	ErrAlreadyClosed     = errors.New("el ticket ya está cerrado")
	ErrInvalidTicketType = errors.New("tipo de ticket desconocido")
	ErrInvalidPayload    = errors.New("payload de ticket inválido")
)

// Event kinds sent to a Publisher.
const (
	EventCreated = "created"
	EventClosed  = "closed"
)

// Event describes a successful transition.
type Event struct {
	Kind    string        `json:"kind"`
	GuildID string        `json:"guild_id"`
	Ticket  models.Ticket `json:"ticket"`
}

// Publisher receives transitions after they are persisted. Publish errors
// are logged and never undo the transition.
type Publisher interface {
	PublishTicketEvent(e Event) error
}

// Manager runs ticket transitions against the tickets collection.
type Manager struct {
	data      *database.DataManager[models.TicketsPartition]
	now       func() time.Time
	publisher Publisher
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithPublisher sets where transitions are announced.
func WithPublisher(p Publisher) Option {
	return func(m *Manager) { m.publisher = p }
}

// NewManager creates a Manager over the tickets collection of managers.
func NewManager(managers *database.Managers, opts ...Option) *Manager {
	m := &Manager{
		data: managers.Tickets,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a ticket for (guildID, channelID). It fails with
// ErrDuplicateTicket when the channel already has a ticket, open or closed.
func (m *Manager) Create(guildID, channelID, openerID string, ticketType models.TicketType, payload map[string]any) (*models.Ticket, error) {
	if guildID == "" || channelID == "" || openerID == "" {
		return nil, fmt.Errorf("%w: guild, channel and opener are required", database.ErrInvalidKey)
	}
	if !ticketType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicketType, ticketType)
	}
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var created models.Ticket
	err := m.data.Update(guildID, func(p *models.TicketsPartition, _ bool) error {
		if *p == nil {
			*p = make(models.TicketsPartition)
		}
		if _, exists := (*p)[channelID]; exists {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateTicket, guildID, channelID)
		}
		created = models.Ticket{
			OpenedBy:   openerID,
			ChannelID:  channelID,
			TicketType: ticketType,
			IsOpen:     true,
			OpenedAt:   m.now().UTC(),
			Payload:    clonePayload(payload),
		}
		t := created
		(*p)[channelID] = &t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TicketTransitions.WithLabelValues(EventCreated, string(ticketType)).Inc()
	logger.Info(fmt.Sprintf("Ticket %s abierto en %s por %s (%s)", channelID, guildID, openerID, ticketType), "Tickets")
	m.publish(EventCreated, guildID, created)
	return &created, nil
}

// Get returns the ticket of a channel, or nil, nil when there is none.
func (m *Manager) Get(guildID, channelID string) (*models.Ticket, error) {
	p, err := m.data.Get(guildID)
	if err != nil || p == nil {
		return nil, err
	}
	t := (*p)[channelID]
	if t == nil {
		return nil, nil
	}
	out := *t
	out.Payload = clonePayload(t.Payload)
	return &out, nil
}

// Close moves an open ticket to closed and returns the updated record.
func (m *Manager) Close(guildID, channelID, closerID string) (*models.Ticket, error) {
	var closed models.Ticket
	err := m.data.Update(guildID, func(p *models.TicketsPartition, _ bool) error {
		if *p == nil {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, guildID, channelID)
		}
		t := (*p)[channelID]
		if t == nil {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, guildID, channelID)
		}
		if !t.IsOpen {
			return fmt.Errorf("%w: %s/%s", ErrAlreadyClosed, guildID, channelID)
		}
		now := m.now().UTC()
		t.IsOpen = false
		t.ClosedAt = &now
		t.ClosedBy = closerID
		closed = *t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TicketTransitions.WithLabelValues(EventClosed, string(closed.TicketType)).Inc()
	logger.Info(fmt.Sprintf("Ticket %s cerrado en %s por %s", channelID, guildID, closerID), "Tickets")
	m.publish(EventClosed, guildID, closed)
	return &closed, nil
}

// List returns every ticket of a guild, oldest first.
func (m *Manager) List(guildID string) ([]models.Ticket, error) {
	return m.list(guildID, func(*models.Ticket) bool { return true })
}

// ListOpen returns the open tickets of a guild, oldest first.
func (m *Manager) ListOpen(guildID string) ([]models.Ticket, error) {
	return m.list(guildID, func(t *models.Ticket) bool { return t.IsOpen })
}

// ListByOpener returns every ticket a user opened in a guild, oldest first.
func (m *Manager) ListByOpener(guildID, userID string) ([]models.Ticket, error) {
	return m.list(guildID, func(t *models.Ticket) bool { return t.OpenedBy == userID })
}

// CountOpenByOpener returns how many open tickets a user currently holds.
func (m *Manager) CountOpenByOpener(guildID, userID string) (int, error) {
	list, err := m.list(guildID, func(t *models.Ticket) bool { return t.IsOpen && t.OpenedBy == userID })
	return len(list), err
}

func (m *Manager) list(guildID string, keep func(*models.Ticket) bool) ([]models.Ticket, error) {
	p, err := m.data.Get(guildID)
	if err != nil {
		return nil, err
	}
	out := []models.Ticket{}
	if p == nil {
		return out, nil
	}
	for _, t := range *p {
		if t != nil && keep(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out, nil
}

func (m *Manager) publish(kind, guildID string, t models.Ticket) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishTicketEvent(Event{Kind: kind, GuildID: guildID, Ticket: t}); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar el evento %s del ticket %s: %v", kind, t.ChannelID, err), "Tickets")
	}
}

// validatePayload accepts strings, numbers, booleans and nil values.
func validatePayload(payload map[string]any) error {
	for k, v := range payload {
		switch v.(type) {
		case nil, string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
		default:
			return fmt.Errorf("%w: field %q has type %T", ErrInvalidPayload, k, v)
		}
	}
	return nil
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}
