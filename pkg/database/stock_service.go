package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxStockItemLen = 200

var (
	ErrInvalidStock          = errors.New("invalid stock item")
	ErrStockCategoryNotFound = errors.New("stock category not found")
	ErrStockIndexOutOfRange  = errors.New("stock item number out of range")
)

// StockCategory normalises a category name: inner spaces collapsed and every
// word capitalised, so "mfa  accounts" and "MFA Accounts" share a list.
func StockCategory(name string) string {
	// A Caser keeps state, one per call.
	return cases.Title(language.Und).String(strings.Join(strings.Fields(name), " "))
}

// AddStock appends an item to a category, creating the category if needed.
// It returns the normalised category and the 1-based number of the item.
func (m *Managers) AddStock(guildID, category, item string) (string, int, error) {
	cat := StockCategory(category)
	item = strings.TrimSpace(item)
	if cat == "" || item == "" || utf8.RuneCountInString(item) > maxStockItemLen {
		return "", 0, fmt.Errorf("%w: category and item are required, items up to %d characters", ErrInvalidStock, maxStockItemLen)
	}
	number := 0
	err := m.Stock.Update(guildID, func(p *models.StockPartition, _ bool) error {
		if *p == nil {
			*p = make(models.StockPartition)
		}
		(*p)[cat] = append((*p)[cat], item)
		number = len((*p)[cat])
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	logger.Info(fmt.Sprintf("Stock añadido en %s/%s (#%d)", guildID, cat, number), "Stock")
	return cat, number, nil
}

// RemoveStock removes the item with the given 1-based number. A category left
// empty is dropped.
func (m *Managers) RemoveStock(guildID, category string, number int) (string, string, error) {
	cat := StockCategory(category)
	var removed string
	err := m.Stock.Update(guildID, func(p *models.StockPartition, exists bool) error {
		if !exists || *p == nil {
			return ErrStockCategoryNotFound
		}
		items, ok := (*p)[cat]
		if !ok {
			return ErrStockCategoryNotFound
		}
		if number < 1 || number > len(items) {
			return fmt.Errorf("%w: %d of %d", ErrStockIndexOutOfRange, number, len(items))
		}
		removed = items[number-1]
		items = append(items[:number-1:number-1], items[number:]...)
		if len(items) == 0 {
			delete(*p, cat)
		} else {
			(*p)[cat] = items
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return cat, removed, nil
}

// ClearStock drops a whole category and returns how many items it held.
func (m *Managers) ClearStock(guildID, category string) (string, int, error) {
	cat := StockCategory(category)
	cleared := 0
	err := m.Stock.Update(guildID, func(p *models.StockPartition, exists bool) error {
		if !exists || *p == nil {
			return ErrStockCategoryNotFound
		}
		items, ok := (*p)[cat]
		if !ok {
			return ErrStockCategoryNotFound
		}
		cleared = len(items)
		delete(*p, cat)
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	logger.Info(fmt.Sprintf("Categoría de stock %s vaciada en %s (%d)", cat, guildID, cleared), "Stock")
	return cat, cleared, nil
}

// StockList returns the stock of a guild. It is never nil.
func (m *Managers) StockList(guildID string) (models.StockPartition, error) {
	p, err := m.Stock.Get(guildID)
	if err != nil {
		return nil, err
	}
	if p == nil || *p == nil {
		return models.StockPartition{}, nil
	}
	return *p, nil
}

// StockCategories returns the non-empty categories of a guild, sorted.
func (m *Managers) StockCategories(guildID string) ([]string, error) {
	p, err := m.StockList(guildID)
	if err != nil {
		return nil, err
	}
	cats := make([]string, 0, len(p))
	for cat, items := range p {
		if len(items) > 0 {
			cats = append(cats, cat)
		}
	}
	sort.Strings(cats)
	return cats, nil
}
