package core

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultStore is used when an item is added without a store name.
	DefaultStore = "Algemeen"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

type (
	Money struct {
		Cents int64
	}

	// GroceryItem is one purchased or planned entry in the ledger.
	GroceryItem struct {
		ID        string
		Name      string
		Quantity  float64
		UnitPrice Money
		Store     string
		Recurring bool // survives week/month purges
		Checked   bool // display state only, ignored by totals
		CreatedAt time.Time
	}

	// Settings is the persisted application settings record.
	Settings struct {
		CurrencyCode string // ISO 4217, e.g. "EUR"
		Theme        string
		ShowPrice    bool
		KnownStores  []string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty item name")
	ErrEmptyStore    = errors.New("empty store name")
)

// NewGroceryItem builds an item with a fresh identifier and timestamp.
// Quantity and unit price are clamped to zero, never rejected.
func NewGroceryItem(name string, quantity float64, unitPrice Money, store string) GroceryItem {
	if quantity < 0 {
		quantity = 0
	}
	if unitPrice.Cents < 0 {
		unitPrice.Cents = 0
	}
	if strings.TrimSpace(store) == "" {
		store = DefaultStore
	}
	return GroceryItem{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Store:     store,
		CreatedAt: time.Now(),
	}
}

func (i GroceryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Quantity < 0 || i.UnitPrice.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(i.Store) == "" {
		return ErrEmptyStore
	}
	return nil
}

// LineTotal is quantity × unit price, rounded half-up to whole cents.
func (i GroceryItem) LineTotal() Money {
	return Money{Cents: int64(math.Round(i.Quantity * float64(i.UnitPrice.Cents)))}
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// DefaultSettings returns the settings used before any are persisted.
func DefaultSettings() Settings {
	return Settings{
		CurrencyCode: "EUR",
		Theme:        ThemeLight,
		ShowPrice:    true,
	}
}

func (s Settings) Validate() error {
	if len(s.CurrencyCode) != 3 {
		return errors.New("currency code must be ISO 4217 (3 letters)")
	}
	switch s.Theme {
	case ThemeLight, ThemeDark:
	default:
		return errors.New("unknown theme")
	}
	return nil
}
