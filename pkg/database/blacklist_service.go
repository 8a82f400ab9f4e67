package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
)

var (
	ErrBlacklistEntryNotFound = errors.New("entrada de blacklist no encontrada")
	ErrEmptyReason            = errors.New("reason must not be empty")
)

// AddToBlacklist blocks a user in a guild. An existing entry is overwritten.
func (m *Managers) AddToBlacklist(guildID, userID, reason, addedBy string) (*models.BlacklistEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}
	entry := models.BlacklistEntry{
		Reason:    reason,
		Timestamp: m.now().UTC(),
		AddedBy:   addedBy,
	}
	err := m.Blacklist.Update(guildID, func(p *models.BlacklistPartition, _ bool) error {
		if *p == nil {
			*p = make(models.BlacklistPartition)
		}
		(*p)[userID] = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Usuario %s añadido a la blacklist de %s", userID, guildID), "Blacklist")
	return &entry, nil
}

// RemoveFromBlacklist unblocks a user. It reports false when the user was not listed.
func (m *Managers) RemoveFromBlacklist(guildID, userID string) (bool, error) {
	removed := false
	err := m.Blacklist.Update(guildID, func(p *models.BlacklistPartition, exists bool) error {
		if !exists || *p == nil {
			return ErrNoChange
		}
		if _, ok := (*p)[userID]; !ok {
			return ErrNoChange
		}
		delete(*p, userID)
		removed = true
		return nil
	})
	if errors.Is(err, ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return removed, nil
}

// BlacklistEntryFor returns the entry for a user or ErrBlacklistEntryNotFound.
func (m *Managers) BlacklistEntryFor(guildID, userID string) (*models.BlacklistEntry, error) {
	p, err := m.Blacklist.Get(guildID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrBlacklistEntryNotFound
	}
	entry, ok := (*p)[userID]
	if !ok {
		return nil, ErrBlacklistEntryNotFound
	}
	return &entry, nil
}

// IsBlacklisted reports whether a user is blocked in a guild.
func (m *Managers) IsBlacklisted(guildID, userID string) (bool, error) {
	_, err := m.BlacklistEntryFor(guildID, userID)
	if errors.Is(err, ErrBlacklistEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BlacklistEntries returns every blocked user of a guild.
func (m *Managers) BlacklistEntries(guildID string) (models.BlacklistPartition, error) {
	p, err := m.Blacklist.Get(guildID)
	if err != nil || p == nil {
		return models.BlacklistPartition{}, err
	}
	return *p, nil
}
