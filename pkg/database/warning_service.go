package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/google/uuid"
)

var ErrWarningNotFound = errors.New("advertencia no encontrada")

// AddWarning appends a warning and returns it with the user's new warning count.
func (m *Managers) AddWarning(guildID, userID, warnedByID, reason string) (models.Warning, int, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Warning{}, 0, ErrEmptyReason
	}
	warn := models.Warning{
		ID:         uuid.New().String()[:8],
		WarnedByID: warnedByID,
		Reason:     reason,
		Timestamp:  m.now().UTC(),
	}
	count := 0
	err := m.Warnings.Update(guildID, func(p *models.WarningsPartition, _ bool) error {
		if *p == nil {
			*p = make(models.WarningsPartition)
		}
		(*p)[userID] = append((*p)[userID], warn)
		count = len(models.ActiveWarnings((*p)[userID]))
		return nil
	})
	if err != nil {
		return models.Warning{}, 0, err
	}
	logger.Info(fmt.Sprintf("Advertencia %s para %s en %s (total: %d)", warn.ID, userID, guildID, count), "Warnings")
	return warn, count, nil
}

// ListWarnings returns a user's active warnings oldest first.
func (m *Managers) ListWarnings(guildID, userID string) ([]models.Warning, error) {
	list, err := m.WarningHistory(guildID, userID)
	if err != nil {
		return []models.Warning{}, err
	}
	return models.ActiveWarnings(list), nil
}

// WarningHistory returns every warning of a user, revoked ones included.
func (m *Managers) WarningHistory(guildID, userID string) ([]models.Warning, error) {
	p, err := m.Warnings.Get(guildID)
	if err != nil || p == nil {
		return []models.Warning{}, err
	}
	list := (*p)[userID]
	if list == nil {
		return []models.Warning{}, nil
	}
	return list, nil
}

// WarningCount returns how many active warnings a user has.
func (m *Managers) WarningCount(guildID, userID string) (int, error) {
	list, err := m.ListWarnings(guildID, userID)
	return len(list), err
}

// RemoveWarning revokes one warning by ID. The entry stays in the history.
// Revoking an unknown or already revoked warning returns ErrWarningNotFound.
func (m *Managers) RemoveWarning(guildID, userID, warningID, revokedBy string) error {
	return m.Warnings.Update(guildID, func(p *models.WarningsPartition, exists bool) error {
		if !exists || *p == nil {
			return ErrWarningNotFound
		}
		list := (*p)[userID]
		for i := range list {
			if list[i].ID != warningID || list[i].Revoked {
				continue
			}
			at := m.now().UTC()
			list[i].Revoked = true
			list[i].RevokedBy = revokedBy
			list[i].RevokedAt = &at
			logger.Info(fmt.Sprintf("Advertencia %s de %s revocada en %s por %s", warningID, userID, guildID, revokedBy), "Warnings")
			return nil
		}
		return ErrWarningNotFound
	})
}
