// Package guildconfig resolves the effective configuration of each guild.
//
// A guild's config is materialised from the process-wide defaults the first
// time it is read and persisted; later changes to the defaults never reach
// guilds that already have a config. Legacy flat MFA price tables are
// migrated to the {buy, sell} layout on read.
package guildconfig

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidPrice       = errors.New("el precio debe ser un número positivo")
	ErrUnknownRank        = errors.New("rango desconocido")
	ErrUnknownChannelKind = errors.New("tipo de canal desconocido")
	ErrUnknownCategory    = errors.New("categoría de ticket desconocida")
	ErrLegacyPrices       = errors.New("la tabla de precios MFA está en formato antiguo y no se pudo migrar")
	ErrNoDefaultsFile     = errors.New("no hay archivo de valores por defecto configurado")
)

// Direction selects the buy or sell side of a price table.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// Channel kinds accepted by SetChannel.
const (
	ChannelTickets       = "tickets"
	ChannelVouches       = "vouches"
	ChannelLogs          = "logs"
	ChannelAnnouncements = "announcements"
)

// Resolver reads and updates guild configs stored in the guild_config collection.
type Resolver struct {
	store        *database.Store
	defaultsPath string

	mu       sync.RWMutex
	defaults *models.AppDefaults

	group  singleflight.Group
	warned sync.Map
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDefaultsPath makes SetDefaults persist to path.
func WithDefaultsPath(path string) Option {
	return func(r *Resolver) { r.defaultsPath = path }
}

// NewResolver creates a resolver. defaults is copied.
func NewResolver(store *database.Store, defaults *models.AppDefaults, opts ...Option) *Resolver {
	if defaults == nil {
		defaults = models.BuiltinDefaults()
	}
	r := &Resolver{store: store, defaults: defaults.Clone()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Defaults returns a copy of the current process-wide defaults.
func (r *Resolver) Defaults() *models.AppDefaults {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults.Clone()
}

// AppOwnerID returns the global owner from the defaults file.
func (r *Resolver) AppOwnerID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return string(r.defaults.OwnerID)
}

// SetDefaults replaces the default pricing used for guilds that have not
// been materialised yet. Nil arguments keep the current value.
func (r *Resolver) SetDefaults(payments []string, coins *models.CoinPrices, mfa *models.MFAPrices) error {
	if coins != nil {
		if err := checkPrice(coins.BuyBasePrice); err != nil {
			return err
		}
		if err := checkPrice(coins.SellBasePrice); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.defaults.Clone()
	if payments != nil {
		next.Defaults.Payments = cleanList(payments)
	}
	if coins != nil {
		next.Defaults.Coins = *coins
	}
	if mfa != nil {
		next.Defaults.MFAPrices = mfa.Clone()
	}
	if r.defaultsPath != "" {
		if err := SaveDefaults(r.defaultsPath, next); err != nil {
			return err
		}
	}
	r.defaults = next
	logger.Info("Valores por defecto actualizados", "Config")
	return nil
}

// ReloadDefaults re-reads the defaults file given with WithDefaultsPath.
func (r *Resolver) ReloadDefaults() (*models.AppDefaults, error) {
	if r.defaultsPath == "" {
		return nil, ErrNoDefaultsFile
	}
	next, err := LoadDefaults(r.defaultsPath)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.defaults = next
	r.mu.Unlock()
	logger.Info("Valores por defecto recargados desde "+r.defaultsPath, "Config")
	return next.Clone(), nil
}

// Resolve returns the effective config of a guild, creating it from the
// defaults on first read and migrating a legacy MFA table if present.
func (r *Resolver) Resolve(guildID string) (*models.GuildConfig, error) {
	raw, ok, err := r.store.GetPartition(database.CollGuildConfig, guildID)
	if err != nil {
		return nil, err
	}
	if ok && !partitionNeedsMigration(raw) {
		return decodeConfig(guildID, raw)
	}

	v, err, _ := r.group.Do(guildID, func() (any, error) {
		return r.materialize(guildID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.GuildConfig).Clone(), nil
}

// materialize creates or migrates a guild config under the collection lock.
func (r *Resolver) materialize(guildID string) (*models.GuildConfig, error) {
	var cfg *models.GuildConfig
	err := r.store.MutatePartition(database.CollGuildConfig, guildID, func(raw json.RawMessage, exists bool) (json.RawMessage, error) {
		if !exists {
			cfg = r.Defaults().NewGuildConfig()
			logger.Info(fmt.Sprintf("Configuración creada para %s desde los valores por defecto", guildID), "Config")
			return json.Marshal(cfg)
		}

		next, changed, err := migratePartition(raw)
		if err != nil {
			if !errors.Is(err, ErrUnsafeMigration) {
				return nil, fmt.Errorf("%w: guild config %s: %w", database.ErrStorageUnavailable, guildID, err)
			}
			metrics.ConfigMigrations.WithLabelValues("skipped").Inc()
			if _, seen := r.warned.LoadOrStore(guildID, true); !seen {
				logger.Warn(fmt.Sprintf("mfa_prices de %s sigue en formato antiguo: %v", guildID, err), "Config")
			}
			next = raw
		} else if changed {
			metrics.ConfigMigrations.WithLabelValues("migrated").Inc()
			logger.Info(fmt.Sprintf("mfa_prices de %s migrado a {buy, sell}", guildID), "Config")
		}

		if cfg, err = decodeConfig(guildID, next); err != nil {
			return nil, err
		}
		if !changed {
			return nil, database.ErrNoChange
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(guildID string, raw json.RawMessage) (*models.GuildConfig, error) {
	var cfg models.GuildConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: guild config %s: %w", database.ErrStorageUnavailable, guildID, err)
	}
	if cfg.Owners == nil {
		cfg.Owners = []models.FlexibleID{}
	}
	if cfg.Payments == nil {
		cfg.Payments = []string{}
	}
	if cfg.TicketCategories == nil {
		cfg.TicketCategories = map[string]models.TicketCategory{}
	}
	return &cfg, nil
}

// update resolves the guild first so mutators always see a materialised and
// migrated config, then applies fn under the collection lock. fn may return
// database.ErrNoChange to skip the write.
func (r *Resolver) update(guildID string, fn func(cfg *models.GuildConfig) error) (*models.GuildConfig, error) {
	if _, err := r.Resolve(guildID); err != nil {
		return nil, err
	}
	var out *models.GuildConfig
	err := r.store.MutatePartition(database.CollGuildConfig, guildID, func(raw json.RawMessage, exists bool) (json.RawMessage, error) {
		var cfg *models.GuildConfig
		if exists {
			var err error
			if cfg, err = decodeConfig(guildID, raw); err != nil {
				return nil, err
			}
		} else {
			cfg = r.Defaults().NewGuildConfig()
		}
		err := fn(cfg)
		if err != nil && !errors.Is(err, database.ErrNoChange) {
			return nil, err
		}
		out = cfg
		if err != nil {
			return nil, err
		}
		return json.Marshal(cfg)
	})
	if err != nil {
		return nil, err
	}
	return out.Clone(), nil
}

// AddOwner adds a guild owner. It reports false when already listed.
func (r *Resolver) AddOwner(guildID, userID string) (bool, error) {
	added := false
	_, err := r.update(guildID, func(cfg *models.GuildConfig) error {
		if cfg.HasOwner(userID) {
			return database.ErrNoChange
		}
		cfg.Owners = append(cfg.Owners, models.FlexibleID(userID))
		added = true
		return nil
	})
	return added, err
}

// RemoveOwner removes a guild owner. It reports false when not listed.
func (r *Resolver) RemoveOwner(guildID, userID string) (bool, error) {
	removed := false
	_, err := r.update(guildID, func(cfg *models.GuildConfig) error {
		kept := cfg.Owners[:0]
		for _, id := range cfg.Owners {
			if id == models.FlexibleID(userID) {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if !removed {
			return database.ErrNoChange
		}
		cfg.Owners = kept
		return nil
	})
	return removed, err
}

// SetStaffRole binds the staff role. An empty roleID clears it.
func (r *Resolver) SetStaffRole(guildID, roleID string) (*models.GuildConfig, error) {
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		cfg.StaffRole = models.FlexibleID(roleID)
		return nil
	})
}

// SetChannel binds one of the channel kinds. An empty channelID clears it.
func (r *Resolver) SetChannel(guildID, kind, channelID string) (*models.GuildConfig, error) {
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		switch kind {
		case ChannelTickets:
			cfg.Channels.Tickets = models.FlexibleID(channelID)
		case ChannelVouches:
			cfg.Channels.Vouches = models.FlexibleID(channelID)
		case ChannelLogs:
			cfg.Channels.Logs = models.FlexibleID(channelID)
		case ChannelAnnouncements:
			cfg.Channels.Announcements = models.FlexibleID(channelID)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownChannelKind, kind)
		}
		return nil
	})
}

// SetPayments replaces the payment method list. Blank entries are dropped.
func (r *Resolver) SetPayments(guildID string, methods []string) (*models.GuildConfig, error) {
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		cfg.Payments = cleanList(methods)
		return nil
	})
}

// SetCoinPrices sets the per-million coin prices.
func (r *Resolver) SetCoinPrices(guildID string, buy, sell float64) (*models.GuildConfig, error) {
	if err := checkPrice(buy); err != nil {
		return nil, err
	}
	if err := checkPrice(sell); err != nil {
		return nil, err
	}
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		cfg.Coins = models.CoinPrices{BuyBasePrice: buy, SellBasePrice: sell}
		return nil
	})
}

// SetMFAPrice sets one rank's price on one side of the MFA table.
func (r *Resolver) SetMFAPrice(guildID string, dir Direction, rank string, price float64) (*models.GuildConfig, error) {
	if !models.ValidRank(rank) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRank, rank)
	}
	if dir != Buy && dir != Sell {
		return nil, fmt.Errorf("unknown price direction %q", dir)
	}
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		if cfg.MFAPrices.IsLegacy() {
			return ErrLegacyPrices
		}
		table := &cfg.MFAPrices.Buy
		if dir == Sell {
			table = &cfg.MFAPrices.Sell
		}
		if *table == nil {
			*table = make(map[string]float64)
		}
		(*table)[rank] = price
		return nil
	})
}

// SetCategoryEnabled toggles a ticket category.
func (r *Resolver) SetCategoryEnabled(guildID string, t models.TicketType, enabled bool) (*models.GuildConfig, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, t)
	}
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		c := cfg.Category(t)
		c.Enabled = enabled
		cfg.TicketCategories[string(t)] = c
		return nil
	})
}

// UpdateCategory replaces the metadata of a ticket category.
func (r *Resolver) UpdateCategory(guildID string, t models.TicketType, c models.TicketCategory) (*models.GuildConfig, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, t)
	}
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		cfg.TicketCategories[string(t)] = c
		return nil
	})
}

// SetImages replaces the banner URLs.
func (r *Resolver) SetImages(guildID string, images models.Images) (*models.GuildConfig, error) {
	return r.update(guildID, func(cfg *models.GuildConfig) error {
		cfg.Images = images
		return nil
	})
}

func checkPrice(p float64) error {
	if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, p)
	}
	return nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
