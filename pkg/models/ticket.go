package models

import "time"

// TicketType tags what a ticket is about.
type TicketType string

const (
	TicketSellAccount TicketType = "sell_account"
	TicketBuyAccount  TicketType = "buy_account"
	TicketSellProfile TicketType = "sell_profile"
	TicketSellAlt     TicketType = "sell_alt"
	TicketSellMFA     TicketType = "sell_mfa"
	TicketBuyMFA      TicketType = "buy_mfa"
	TicketBuyCoins    TicketType = "buy_coins"
	TicketSellCoins   TicketType = "sell_coins"
)

// TicketTypes lists every known ticket type in display order.
var TicketTypes = []TicketType{
	TicketSellAccount,
	TicketBuyAccount,
	TicketSellProfile,
	TicketSellAlt,
	TicketSellMFA,
	TicketBuyMFA,
	TicketBuyCoins,
	TicketSellCoins,
}

// Valid reports whether t is one of the known ticket types.
func (t TicketType) Valid() bool {
	for _, known := range TicketTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Ticket is a tracked sales or support conversation bound to one channel.
// Tickets are never removed from the store, closing only flips IsOpen.
type Ticket struct {
	OpenedBy   string         `json:"opened_by"`
	ChannelID  string         `json:"channel_id"`
	TicketType TicketType     `json:"ticket_type"`
	IsOpen     bool           `json:"is_open"`
	OpenedAt   time.Time      `json:"opened_at"`
	ClosedAt   *time.Time     `json:"closed_at,omitempty"`
	ClosedBy   string         `json:"closed_by,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// TicketsPartition is keyed by channel ID.
type TicketsPartition map[string]*Ticket
