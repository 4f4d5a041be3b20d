// Package file persists the ledger snapshot as a single JSON document.
// It is the zero-dependency backend for setups without SQLite.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"boodschappen/internal/core"
	"boodschappen/internal/snapshot"
)

const fileName = "boodschappen.json"

type Store struct {
	mu   sync.Mutex
	path string
}

// record is the on-disk shape. Field names are part of the format.
type record struct {
	Items      []itemRecord `json:"items"`
	MonthKey   string       `json:"month_key"`
	MonthCarry int64        `json:"month_carry_cents"`
	Settings   settingsRec  `json:"settings"`
}

type itemRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Store          string    `json:"store"`
	Recurring      bool      `json:"recurring"`
	Checked        bool      `json:"checked"`
	CreatedAt      time.Time `json:"created_at"`
}

type settingsRec struct {
	CurrencyCode string   `json:"currency_code"`
	Theme        string   `json:"theme"`
	ShowPrice    bool     `json:"show_price"`
	KnownStores  []string `json:"known_stores,omitempty"`
}

// New creates a store rooted in the given directory, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

func (s *Store) Load(_ context.Context) (snapshot.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return snapshot.Empty(), nil
	}
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decode snapshot file: %w", err)
	}

	snap := snapshot.Snapshot{
		MonthKey:        rec.MonthKey,
		MonthCarryCents: rec.MonthCarry,
		Settings: core.Settings{
			CurrencyCode: rec.Settings.CurrencyCode,
			Theme:        rec.Settings.Theme,
			ShowPrice:    rec.Settings.ShowPrice,
			KnownStores:  rec.Settings.KnownStores,
		},
	}
	if snap.Settings.CurrencyCode == "" {
		snap.Settings = core.DefaultSettings()
	}
	for _, it := range rec.Items {
		snap.Items = append(snap.Items, core.GroceryItem{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: core.Money{Cents: it.UnitPriceCents},
			Store:     it.Store,
			Recurring: it.Recurring,
			Checked:   it.Checked,
			CreatedAt: it.CreatedAt,
		})
	}
	return snap, nil
}

// Save writes the whole snapshot through a temp file and rename, so a crash
// mid-write never corrupts the previous state.
func (s *Store) Save(_ context.Context, snap snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{
		MonthKey:   snap.MonthKey,
		MonthCarry: snap.MonthCarryCents,
		Settings: settingsRec{
			CurrencyCode: snap.Settings.CurrencyCode,
			Theme:        snap.Settings.Theme,
			ShowPrice:    snap.Settings.ShowPrice,
			KnownStores:  snap.Settings.KnownStores,
		},
	}
	for _, it := range snap.Items {
		rec.Items = append(rec.Items, itemRecord{
			ID:             it.ID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPrice.Cents,
			Store:          it.Store,
			Recurring:      it.Recurring,
			Checked:        it.Checked,
			CreatedAt:      it.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
