package models

import (
	"bytes"
	"math"

	"github.com/goccy/go-json"
)

// Rank is an account rank used to price MFA listings.
type Rank string

const (
	RankNon     Rank = "NON"
	RankVIP     Rank = "VIP"
	RankVIPPlus Rank = "VIP+"
	RankMVP     Rank = "MVP"
	RankMVPPlus Rank = "MVP+"
)

// Ranks is the fixed rank enumeration in ascending order.
var Ranks = []Rank{RankNon, RankVIP, RankVIPPlus, RankMVP, RankMVPPlus}

// ValidRank reports whether r belongs to the rank enumeration.
func ValidRank(r string) bool {
	for _, known := range Ranks {
		if string(known) == r {
			return true
		}
	}
	return false
}

// Channels holds the optional channel bindings of a guild.
type Channels struct {
	Tickets       FlexibleID `json:"tickets,omitempty"`
	Vouches       FlexibleID `json:"vouches,omitempty"`
	Logs          FlexibleID `json:"logs,omitempty"`
	Announcements FlexibleID `json:"announcements,omitempty"`
}

// CoinPrices are prices per million coins.
type CoinPrices struct {
	BuyBasePrice  float64 `json:"buy_base_price"`
	SellBasePrice float64 `json:"sell_base_price"`
}

// Price returns the total for an amount expressed in millions.
func (c CoinPrices) Price(millions float64, selling bool) float64 {
	if selling {
		return millions * c.SellBasePrice
	}
	return millions * c.BuyBasePrice
}

// MFAPrices is the rank price table split by direction.
//
// A table that was stored in the legacy flat shape and could not be migrated
// keeps its original bytes so that saving the config does not lose them.
type MFAPrices struct {
	Buy  map[string]float64 `json:"buy"`
	Sell map[string]float64 `json:"sell"`

	legacy json.RawMessage
}

type mfaPricesShape struct {
	Buy  map[string]float64 `json:"buy"`
	Sell map[string]float64 `json:"sell"`
}

// IsLegacy reports whether the table still holds an unmigrated flat layout.
func (m MFAPrices) IsLegacy() bool {
	return m.legacy != nil
}

// MarshalJSON writes legacy tables back untouched.
func (m MFAPrices) MarshalJSON() ([]byte, error) {
	if m.legacy != nil {
		return m.legacy, nil
	}
	return json.Marshal(mfaPricesShape{Buy: m.Buy, Sell: m.Sell})
}

// UnmarshalJSON accepts both the nested {buy, sell} layout and the legacy flat one.
func (m *MFAPrices) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	_, hasBuy := top["buy"]
	_, hasSell := top["sell"]
	if hasBuy || hasSell {
		var shape mfaPricesShape
		if err := json.Unmarshal(data, &shape); err != nil {
			return err
		}
		m.Buy, m.Sell, m.legacy = shape.Buy, shape.Sell, nil
		return nil
	}

	// Flat table: expose whatever numbers it holds as buy prices.
	m.Buy = make(map[string]float64, len(top))
	m.Sell = nil
	for rank, raw := range top {
		var price float64
		if err := json.Unmarshal(raw, &price); err == nil && !math.IsNaN(price) && !math.IsInf(price, 0) {
			m.Buy[rank] = price
		}
	}
	m.legacy = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// Clone returns a deep copy of the table.
func (m MFAPrices) Clone() MFAPrices {
	out := MFAPrices{Buy: cloneFloatMap(m.Buy), Sell: cloneFloatMap(m.Sell)}
	if m.legacy != nil {
		out.legacy = append(json.RawMessage(nil), m.legacy...)
	}
	return out
}

// TicketCategory is the display metadata for one ticket type.
type TicketCategory struct {
	Enabled     bool       `json:"enabled"`
	Name        string     `json:"name,omitempty"`
	Emoji       string     `json:"emoji,omitempty"`
	Description string     `json:"description,omitempty"`
	CategoryID  FlexibleID `json:"category_id,omitempty"`
}

// Images holds optional banner URLs.
type Images struct {
	TicketBanner string `json:"ticket_banner,omitempty"`
	MFABanner    string `json:"mfa_banner,omitempty"`
	CoinBanner   string `json:"coin_banner,omitempty"`
}

// GuildConfig is the effective per-guild configuration. Once created it is
// only ever mutated, never removed. IDs are FlexibleID because older files
// store them as bare numbers.
type GuildConfig struct {
	Owners           []FlexibleID              `json:"owners"`
	Channels         Channels                  `json:"channels"`
	StaffRole        FlexibleID                `json:"staff_role,omitempty"`
	Payments         []string                  `json:"payments"`
	Coins            CoinPrices                `json:"coins"`
	MFAPrices        MFAPrices                 `json:"mfa_prices"`
	TicketCategories map[string]TicketCategory `json:"ticket_categories"`
	Images           Images                    `json:"images"`
}

// HasOwner reports whether userID is listed as a guild owner.
func (g *GuildConfig) HasOwner(userID string) bool {
	for _, id := range g.Owners {
		if id == FlexibleID(userID) {
			return true
		}
	}
	return false
}

// Category returns the metadata for a ticket type. Unknown categories are
// treated as enabled, matching guilds that never configured them.
func (g *GuildConfig) Category(t TicketType) TicketCategory {
	if c, ok := g.TicketCategories[string(t)]; ok {
		return c
	}
	return TicketCategory{Enabled: true}
}

// Clone returns a deep copy of the config.
func (g *GuildConfig) Clone() *GuildConfig {
	out := *g
	out.Owners = append([]FlexibleID{}, g.Owners...)
	out.Payments = append([]string{}, g.Payments...)
	out.MFAPrices = g.MFAPrices.Clone()
	out.TicketCategories = make(map[string]TicketCategory, len(g.TicketCategories))
	for k, v := range g.TicketCategories {
		out.TicketCategories[k] = v
	}
	return &out
}

// GuildDefaults is the "defaults" section of the process-wide defaults file.
type GuildDefaults struct {
	Payments         []string                  `json:"payments"`
	Coins            CoinPrices                `json:"coins"`
	MFAPrices        MFAPrices                 `json:"mfa_prices"`
	Channels         *Channels                 `json:"channels,omitempty"`
	TicketCategories map[string]TicketCategory `json:"ticket_categories,omitempty"`
}

// AppDefaults is the process-wide defaults file.
type AppDefaults struct {
	Token    string        `json:"token"`
	ClientID FlexibleID    `json:"client_id"`
	OwnerID  FlexibleID    `json:"owner_id,omitempty"`
	Defaults GuildDefaults `json:"defaults"`
	Images   Images        `json:"images"`
}

// BuiltinDefaults returns the values written when no defaults file exists.
func BuiltinDefaults() *AppDefaults {
	return &AppDefaults{
		Defaults: GuildDefaults{
			Payments: []string{"Crypto"},
			Coins:    CoinPrices{BuyBasePrice: 0.0375, SellBasePrice: 0.015},
			MFAPrices: MFAPrices{
				Buy:  map[string]float64{"NON": 7.0, "VIP": 8.0, "VIP+": 9.5, "MVP": 11.0, "MVP+": 17.0},
				Sell: map[string]float64{"NON": 6.0, "VIP": 7.0, "VIP+": 8.5, "MVP": 10.0, "MVP+": 15.0},
			},
		},
	}
}

// NewGuildConfig materialises a guild config from the defaults. The result
// shares no memory with d.
func (d *AppDefaults) NewGuildConfig() *GuildConfig {
	cfg := &GuildConfig{
		Owners:           []FlexibleID{},
		Payments:         append([]string{}, d.Defaults.Payments...),
		Coins:            d.Defaults.Coins,
		MFAPrices:        d.Defaults.MFAPrices.Clone(),
		TicketCategories: make(map[string]TicketCategory, len(d.Defaults.TicketCategories)),
		Images:           d.Images,
	}
	if d.Defaults.Channels != nil {
		cfg.Channels = *d.Defaults.Channels
	}
	for k, v := range d.Defaults.TicketCategories {
		cfg.TicketCategories[k] = v
	}
	return cfg
}

// Clone returns a deep copy of the defaults.
func (d *AppDefaults) Clone() *AppDefaults {
	out := *d
	out.Defaults.Payments = append([]string{}, d.Defaults.Payments...)
	out.Defaults.MFAPrices = d.Defaults.MFAPrices.Clone()
	if d.Defaults.Channels != nil {
		ch := *d.Defaults.Channels
		out.Defaults.Channels = &ch
	}
	if d.Defaults.TicketCategories != nil {
		out.Defaults.TicketCategories = make(map[string]TicketCategory, len(d.Defaults.TicketCategories))
		for k, v := range d.Defaults.TicketCategories {
			out.Defaults.TicketCategories[k] = v
		}
	}
	return &out
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
