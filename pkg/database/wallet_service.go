package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/models"
)

const (
	minWalletAddressLen = 10
	maxWalletAddressLen = 200
)

var (
	ErrInvalidWallet  = errors.New("invalid wallet address")
	ErrWalletNotFound = errors.New("wallet not found")
)

// SetWallet stores the address for a currency, replacing any previous one.
func (m *Managers) SetWallet(guildID, crypto, address string) (string, error) {
	code := models.CurrencyCode(crypto)
	address = strings.TrimSpace(address)
	if code == "" {
		return "", fmt.Errorf("%w: empty currency", ErrInvalidWallet)
	}
	if n := len(address); n < minWalletAddressLen || n > maxWalletAddressLen {
		return "", fmt.Errorf("%w: address length must be between %d and %d", ErrInvalidWallet, minWalletAddressLen, maxWalletAddressLen)
	}
	err := m.Wallets.Update(guildID, func(p *models.WalletsPartition, _ bool) error {
		if *p == nil {
			*p = make(models.WalletsPartition)
		}
		(*p)[code] = address
		return nil
	})
	return code, err
}

// Wallet returns the address for a currency or ErrWalletNotFound.
func (m *Managers) Wallet(guildID, crypto string) (string, error) {
	p, err := m.Wallets.Get(guildID)
	if err != nil {
		return "", err
	}
	if p != nil {
		if addr, ok := (*p)[models.CurrencyCode(crypto)]; ok {
			return addr, nil
		}
	}
	return "", ErrWalletNotFound
}

// ListWallets returns every stored address of a guild.
func (m *Managers) ListWallets(guildID string) (models.WalletsPartition, error) {
	p, err := m.Wallets.Get(guildID)
	if err != nil || p == nil {
		return models.WalletsPartition{}, err
	}
	return *p, nil
}

// RemoveWallet deletes an address. It reports false when none was stored.
func (m *Managers) RemoveWallet(guildID, crypto string) (bool, error) {
	code := models.CurrencyCode(crypto)
	err := m.Wallets.Update(guildID, func(p *models.WalletsPartition, exists bool) error {
		if !exists || *p == nil {
			return ErrNoChange
		}
		if _, ok := (*p)[code]; !ok {
			return ErrNoChange
		}
		delete(*p, code)
		return nil
	})
	if errors.Is(err, ErrNoChange) {
		return false, nil
	}
	return err == nil, err
}
