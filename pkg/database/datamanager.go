// Package database provides the DataManager for typed partition access.
package database

import (
	"fmt"
	"sort"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/goccy/go-json"
)

// DataManager gives typed access to the partitions of one collection.
// T is the shape of a single guild's partition.
type DataManager[T any] struct {
	store      *Store
	collection Collection
}

// Managers bundles one DataManager per collection.
type Managers struct {
	Store     *Store
	Config    *DataManager[models.GuildConfig]
	Tickets   *DataManager[models.TicketsPartition]
	Vouches   *DataManager[models.VouchesPartition]
	Warnings  *DataManager[models.WarningsPartition]
	Blacklist *DataManager[models.BlacklistPartition]
	Wallets   *DataManager[models.WalletsPartition]
	Stock     *DataManager[models.StockPartition]

	now func() time.Time
}

// ManagersOption configures NewManagers.
type ManagersOption func(*Managers)

// WithClock replaces time.Now for the timestamps the services record.
func WithClock(now func() time.Time) ManagersOption {
	return func(m *Managers) { m.now = now }
}

// Now returns the current time from the configured clock.
func (m *Managers) Now() time.Time {
	return m.now()
}

// global managers for shared collections
var globalManagers *Managers

// NewManagers creates a DataManager for every collection of s.
func NewManagers(s *Store, opts ...ManagersOption) *Managers {
	m := &Managers{
		Store:     s,
		Config:    NewDataManager[models.GuildConfig](CollGuildConfig, s),
		Tickets:   NewDataManager[models.TicketsPartition](CollTickets, s),
		Vouches:   NewDataManager[models.VouchesPartition](CollVouches, s),
		Warnings:  NewDataManager[models.WarningsPartition](CollWarnings, s),
		Blacklist: NewDataManager[models.BlacklistPartition](CollBlacklist, s),
		Wallets:   NewDataManager[models.WalletsPartition](CollWallets, s),
		Stock:     NewDataManager[models.StockPartition](CollStock, s),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InitGlobalDataManagers initializes the shared Managers instance
func InitGlobalDataManagers(s *Store) *Managers {
	globalManagers = NewManagers(s)
	return globalManagers
}

// GlobalManagers returns the shared Managers instance, nil before InitGlobalDataManagers.
func GlobalManagers() *Managers {
	return globalManagers
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](c Collection, s *Store) *DataManager[T] {
	return &DataManager[T]{store: s, collection: c}
}

// Collection returns the collection the manager reads and writes.
func (dm *DataManager[T]) Collection() Collection {
	return dm.collection
}

// Get decodes one guild's partition. It returns nil, nil when the guild has none.
func (dm *DataManager[T]) Get(guildID string) (*T, error) {
	raw, ok, err := dm.store.GetPartition(dm.collection, guildID)
	if err != nil || !ok {
		return nil, err
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Error(fmt.Sprintf("Partición ilegible en '%s' para %s: %v", dm.collection, guildID, err), "DataManager")
		return nil, fmt.Errorf("%w: decoding %s/%s: %w", ErrStorageUnavailable, dm.collection, guildID, err)
	}
	return &value, nil
}

// Set replaces one guild's partition.
func (dm *DataManager[T]) Set(guildID string, value *T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", dm.collection, guildID, err)
	}
	return dm.store.SetPartition(dm.collection, guildID, raw)
}

// Update runs fn on the decoded partition under the collection lock and
// persists the result. value is the zero T when the guild has no partition
// yet. Returning an error from fn aborts without writing.
func (dm *DataManager[T]) Update(guildID string, fn func(value *T, exists bool) error) error {
	return dm.store.MutatePartition(dm.collection, guildID, func(raw json.RawMessage, exists bool) (json.RawMessage, error) {
		var value T
		if exists {
			if err := json.Unmarshal(raw, &value); err != nil {
				return nil, fmt.Errorf("%w: decoding %s/%s: %w", ErrStorageUnavailable, dm.collection, guildID, err)
			}
		}
		if err := fn(&value, exists); err != nil {
			return nil, err
		}
		out, err := json.Marshal(&value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s/%s: %w", dm.collection, guildID, err)
		}
		return out, nil
	})
}

// All decodes every partition of the collection, keyed by guild ID.
// Partitions that fail to decode are skipped and logged.
func (dm *DataManager[T]) All() (map[string]*T, error) {
	doc, err := dm.store.Load(dm.collection)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*T, len(doc))
	for guildID, raw := range doc {
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			logger.Warn(fmt.Sprintf("Se omitió la partición %s de '%s': %v", guildID, dm.collection, err), "DataManager")
			continue
		}
		out[guildID] = &value
	}
	return out, nil
}

// GuildIDs returns the guilds that have a partition, sorted.
func (dm *DataManager[T]) GuildIDs() ([]string, error) {
	doc, err := dm.store.Load(dm.collection)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
