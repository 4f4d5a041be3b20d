// Package ledger owns the grocery list state: the live basket, the active
// accounting month and the total carried over from already closed weeks.
//
// The ledger is owned by a single session and does no locking of its own;
// callers serialize access (see internal/services).
package ledger

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"boodschappen/internal/core"
)

// Ledger is the mutable aggregate behind the chat interpreter. MonthCarry
// never includes the live basket; only CloseWeek folds basket value into it.
type Ledger struct {
	items      []core.GroceryItem
	monthKey   string // "YYYY-MM"
	monthCarry core.Money

	now        func() time.Time
	onNewStore func(store string)
}

// New creates an empty ledger keyed to the current month. A nil clock
// defaults to time.Now.
func New(clock func() time.Time) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{
		monthKey: MonthKeyOf(clock()),
		now:      clock,
	}
}

// OnNewStore registers a hook invoked when an item is added with a store
// name that has not been seen in the current basket yet.
func (l *Ledger) OnNewStore(fn func(store string)) {
	l.onNewStore = fn
}

// MonthKeyOf formats the accounting month tag for a point in time.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// Restore replaces the full ledger state from a persisted snapshot.
func (l *Ledger) Restore(items []core.GroceryItem, monthKey string, monthCarry core.Money) {
	l.items = append([]core.GroceryItem(nil), items...)
	if monthKey != "" {
		l.monthKey = monthKey
	}
	if monthCarry.Cents < 0 {
		monthCarry.Cents = 0
	}
	l.monthCarry = monthCarry
}

// MonthKey returns the active accounting month tag.
func (l *Ledger) MonthKey() string {
	return l.monthKey
}

// MonthCarry returns the total from closed weeks in the current month.
func (l *Ledger) MonthCarry() core.Money {
	l.EnsureCurrentMonth()
	return l.monthCarry
}

// Items returns a snapshot of the live basket.
func (l *Ledger) Items() []core.GroceryItem {
	l.EnsureCurrentMonth()
	return append([]core.GroceryItem(nil), l.items...)
}

// State returns the raw persisted view of the ledger. Unlike the query
// methods it does not trigger the lazy rollover check, so a freshly closed
// month survives into the snapshot.
func (l *Ledger) State() (items []core.GroceryItem, monthKey string, monthCarry core.Money) {
	return append([]core.GroceryItem(nil), l.items...), l.monthKey, l.monthCarry
}

// EnsureCurrentMonth performs the lazy month rollover: when the calendar
// month no longer matches the stored key, all non-recurring items are purged
// and the carry resets before any query or mutation is served. Idempotent
// within the same month.
func (l *Ledger) EnsureCurrentMonth() {
	key := MonthKeyOf(l.now())
	if key == l.monthKey {
		return
	}
	l.purgeNonRecurring()
	l.monthCarry = core.Money{}
	l.monthKey = key
}

// AddItem appends a new item and returns it. Quantity and price are clamped
// at the boundary, an empty store falls back to the default.
func (l *Ledger) AddItem(name string, quantity float64, unitPrice core.Money, store string) core.GroceryItem {
	l.EnsureCurrentMonth()
	item := core.NewGroceryItem(name, quantity, unitPrice, store)
	if l.onNewStore != nil && !l.storeKnown(item.Store) {
		l.onNewStore(item.Store)
	}
	l.items = append(l.items, item)
	return item
}

// RemoveItem deletes the item with the given id. No-op when absent.
func (l *Ledger) RemoveItem(id string) bool {
	l.EnsureCurrentMonth()
	for i, it := range l.items {
		if it.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateItem replaces the stored item with the same id. No-op when absent.
func (l *Ledger) UpdateItem(item core.GroceryItem) bool {
	l.EnsureCurrentMonth()
	for i, it := range l.items {
		if it.ID == item.ID {
			if item.CreatedAt.IsZero() {
				item.CreatedAt = it.CreatedAt
			}
			l.items[i] = item
			return true
		}
	}
	return false
}

// CloseWeek folds the live basket value into the month carry and purges the
// non-recurring items. It returns the week total that was folded in; this is
// the only operation that advances the carry.
func (l *Ledger) CloseWeek() core.Money {
	l.EnsureCurrentMonth()
	weekTotal := l.TotalOfView()
	l.monthCarry = l.monthCarry.Add(weekTotal)
	l.purgeNonRecurring()
	return weekTotal
}

// CloseMonth is the explicit user-triggered forward roll: purge, reset carry
// and advance the month key to the following calendar month. This is
// independent of the lazy catch-up in EnsureCurrentMonth.
func (l *Ledger) CloseMonth() {
	l.EnsureCurrentMonth()
	l.purgeNonRecurring()
	l.monthCarry = core.Money{}
	if t, err := time.Parse("2006-01", l.monthKey); err == nil {
		l.monthKey = MonthKeyOf(t.AddDate(0, 1, 0))
	} else {
		l.monthKey = MonthKeyOf(l.now().AddDate(0, 1, 0))
	}
}

// ClearMonth purges non-recurring items and resets the carry, re-deriving
// the month key from the current date instead of advancing it.
func (l *Ledger) ClearMonth() {
	l.purgeNonRecurring()
	l.monthCarry = core.Money{}
	l.monthKey = MonthKeyOf(l.now())
}

// TotalOf sums the line totals of an item snapshot.
func TotalOf(items []core.GroceryItem) core.Money {
	var total core.Money
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// BreakdownOf groups an item snapshot into per-store totals, ordered by
// case-insensitive store name. Display names are kept as first seen.
func BreakdownOf(items []core.GroceryItem) []core.StoreTotal {
	display := map[string]string{}
	sums := map[string]core.Money{}
	for _, it := range items {
		key := CanonicalStoreName(it.Store)
		if _, seen := display[key]; !seen {
			display[key] = it.Store
		}
		sums[key] = sums[key].Add(it.LineTotal())
	}
	out := make([]core.StoreTotal, 0, len(sums))
	for key, amount := range sums {
		out = append(out, core.StoreTotal{Store: display[key], Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Store) < strings.ToLower(out[j].Store)
	})
	return out
}

// TotalOfView sums the line totals of the live basket.
func (l *Ledger) TotalOfView() core.Money {
	return TotalOf(l.items)
}

// TotalByStore sums line totals of items whose canonical store name matches
// the canonical form of the given name.
func (l *Ledger) TotalByStore(store string) core.Money {
	l.EnsureCurrentMonth()
	want := CanonicalStoreName(store)
	var total core.Money
	for _, it := range l.items {
		if CanonicalStoreName(it.Store) == want {
			total = total.Add(it.LineTotal())
		}
	}
	return total
}

// StoreBreakdown returns per-store totals for the live basket.
func (l *Ledger) StoreBreakdown() []core.StoreTotal {
	l.EnsureCurrentMonth()
	return BreakdownOf(l.items)
}

// TotalThisMonth is the carry from closed weeks plus the live basket.
func (l *Ledger) TotalThisMonth() core.Money {
	l.EnsureCurrentMonth()
	return l.monthCarry.Add(l.TotalOfView())
}

// Summary assembles the month snapshot used by read surfaces.
func (l *Ledger) Summary() core.MonthSummary {
	l.EnsureCurrentMonth()
	view := l.TotalOfView()
	return core.MonthSummary{
		MonthKey:   l.monthKey,
		ViewTotal:  view,
		MonthCarry: l.monthCarry,
		MonthTotal: l.monthCarry.Add(view),
		ByStore:    l.StoreBreakdown(),
	}
}

func (l *Ledger) purgeNonRecurring() {
	kept := l.items[:0]
	for _, it := range l.items {
		if it.Recurring {
			kept = append(kept, it)
		}
	}
	l.items = kept
}

func (l *Ledger) storeKnown(store string) bool {
	want := CanonicalStoreName(store)
	for _, it := range l.items {
		if CanonicalStoreName(it.Store) == want {
			return true
		}
	}
	return false
}

// CanonicalStoreName lower-cases a store name, strips punctuation and a
// leading "winkel "/"store " prefix, and collapses whitespace. The canonical
// form is used for matching only, never persisted over the display form.
func CanonicalStoreName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	out = strings.TrimPrefix(out, "winkel ")
	out = strings.TrimPrefix(out, "store ")
	return out
}
