// Package services orchestrates the ledger, its persistence and the chat
// interpreter into one session. The session owns the only mutex in the
// system: the ledger itself assumes single-threaded ownership, so every
// entry point here serializes access before touching it.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"boodschappen/internal/chat"
	"boodschappen/internal/core"
	"boodschappen/internal/currency"
	"boodschappen/internal/ledger"
	"boodschappen/internal/snapshot"
)

type Session struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	store    snapshot.Store
	settings core.Settings
	currency *currency.Service
	interp   *chat.Interpreter
	dirty    bool

	closeOnce sync.Once
}

// NewSession loads the persisted snapshot and wires the interpreter to the
// restored ledger. On a fresh install (nothing persisted yet) the given
// defaults become the initial settings.
func NewSession(ctx context.Context, store snapshot.Store, defaults core.Settings) (*Session, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.MonthKey == "" && defaults.Validate() == nil {
		snap.Settings = defaults
	}

	cur, err := currency.New(snap.Settings.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("configure currency: %w", err)
	}

	led := ledger.New(nil)
	led.Restore(snap.Items, snap.MonthKey, core.Money{Cents: snap.MonthCarryCents})

	s := &Session{
		ledger:   led,
		store:    store,
		settings: snap.Settings,
		currency: cur,
	}
	led.OnNewStore(s.registerStore)

	// The accessors run while s.mu is already held by the calling entry
	// point, so they touch the ledger directly without locking.
	s.interp = chat.NewInterpreter(chat.Handlers{
		Items: led.Items,
		AddItem: func(name string, quantity float64, unitPrice core.Money, storeName string) {
			led.AddItem(name, quantity, unitPrice, storeName)
			s.dirty = true
		},
		MonthCarry:     led.MonthCarry,
		CurrencySymbol: func() string { return s.currency.Symbol() },
		CurrencyCode:   func() string { return s.currency.Code() },
	})

	return s, nil
}

// Respond handles one chat command: at most one ledger mutation, then a
// best-effort persist. Persistence failures never break the reply; the
// in-memory state stays authoritative and the error is logged.
func (s *Session) Respond(ctx context.Context, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.ledger.MonthKey()
	reply := s.interp.Respond(text)
	s.noteRollover(before)
	if err := s.persistLocked(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger after chat command", "error", err)
	}
	return reply
}

// Items returns a snapshot of the live basket.
func (s *Session) Items(ctx context.Context) []core.GroceryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.ledger.MonthKey()
	items := s.ledger.Items()
	s.noteRollover(before)
	s.logPersist(ctx)
	return items
}

// AddItem appends an item outside the chat flow (list UI, API).
func (s *Session) AddItem(ctx context.Context, name string, quantity float64, unitPrice core.Money, storeName string) (core.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.ledger.AddItem(name, quantity, unitPrice, storeName)
	s.dirty = true
	return item, s.persistLocked(ctx)
}

// RemoveItem deletes an item by id; absent ids are a no-op.
func (s *Session) RemoveItem(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.ledger.RemoveItem(id)
	if removed {
		s.dirty = true
	}
	return removed, s.persistLocked(ctx)
}

// UpdateItem replaces an item by id; absent ids are a no-op.
func (s *Session) UpdateItem(ctx context.Context, item core.GroceryItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := s.ledger.UpdateItem(item)
	if updated {
		s.dirty = true
	}
	return updated, s.persistLocked(ctx)
}

// CloseWeek folds the basket into the month carry and returns the folded
// week total.
func (s *Session) CloseWeek(ctx context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	weekTotal := s.ledger.CloseWeek()
	s.dirty = true
	slog.InfoContext(ctx, "Week closed into month carry",
		"week_total_cents", weekTotal.Cents,
		"month_carry_cents", s.ledger.MonthCarry().Cents)
	return weekTotal, s.persistLocked(ctx)
}

// CloseMonth rolls the ledger forward and returns the new month key. The
// key comes straight from the close; reading it back later would go through
// the lazy rollover and report the calendar month again.
func (s *Session) CloseMonth(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.CloseMonth()
	newKey := s.ledger.MonthKey()
	s.dirty = true
	slog.InfoContext(ctx, "Month closed", "month_key", newKey)
	return newKey, s.persistLocked(ctx)
}

// ClearMonth wipes the current month without advancing it.
func (s *Session) ClearMonth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.ClearMonth()
	s.dirty = true
	return s.persistLocked(ctx)
}

// Refresh performs the lazy month rollover check. The daemon calls this
// periodically and on startup; the ledger also checks on every access, so
// this mainly guarantees the rollover gets persisted promptly.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.ledger.MonthKey()
	s.ledger.EnsureCurrentMonth()
	if s.ledger.MonthKey() != before {
		s.dirty = true
		slog.InfoContext(ctx, "Month rollover applied",
			"previous", before,
			"month_key", s.ledger.MonthKey())
	}
	return s.persistLocked(ctx)
}

// Summary assembles the month snapshot for read surfaces.
func (s *Session) Summary(ctx context.Context) core.MonthSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.ledger.MonthKey()
	summary := s.ledger.Summary()
	s.noteRollover(before)
	s.logPersist(ctx)
	return summary
}

// Settings returns a copy of the active settings.
func (s *Session) Settings() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.settings
	out.KnownStores = append([]string(nil), s.settings.KnownStores...)
	return out
}

// UpdateSettings validates and applies new settings, swapping the currency
// service when the code changed.
func (s *Session) UpdateSettings(ctx context.Context, settings core.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.CurrencyCode != s.currency.Code() {
		cur, err := currency.New(settings.CurrencyCode)
		if err != nil {
			return err
		}
		s.currency = cur
	}
	settings.KnownStores = s.settings.KnownStores
	s.settings = settings
	s.dirty = true
	return s.persistLocked(ctx)
}

// FormatAmount renders an amount with the session's currency.
func (s *Session) FormatAmount(m core.Money) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency.Format(m)
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.store.Close()
	})
	return err
}

// registerStore records a newly seen store name. Runs under s.mu via the
// ledger hook.
func (s *Session) registerStore(storeName string) {
	want := ledger.CanonicalStoreName(storeName)
	for _, known := range s.settings.KnownStores {
		if ledger.CanonicalStoreName(known) == want {
			return
		}
	}
	s.settings.KnownStores = append(s.settings.KnownStores, storeName)
	s.dirty = true
}

// noteRollover marks the session dirty when an access triggered the lazy
// month rollover. Callers must hold s.mu.
func (s *Session) noteRollover(before string) {
	if s.ledger.MonthKey() != before {
		s.dirty = true
	}
}

// persistLocked re-serializes the full state when something changed.
// Callers must hold s.mu.
func (s *Session) persistLocked(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	items, monthKey, monthCarry := s.ledger.State()
	snap := snapshot.Snapshot{
		Items:           items,
		MonthKey:        monthKey,
		MonthCarryCents: monthCarry.Cents,
		Settings:        s.settings,
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.dirty = false
	return nil
}

// logPersist persists state changed as a side effect of a read (a lazy
// rollover may have fired) and only logs on failure.
func (s *Session) logPersist(ctx context.Context) {
	if err := s.persistLocked(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger", "error", err)
	}
}
