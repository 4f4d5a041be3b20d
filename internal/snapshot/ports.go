// Package snapshot defines the persistence boundary of the ledger: one
// serialized record holding the item list, the month bookkeeping and the
// settings. Every mutation re-saves the whole record; there is no delta
// format.
package snapshot

import (
	"context"

	"boodschappen/internal/core"
)

// Snapshot is the full persisted state.
type Snapshot struct {
	Items           []core.GroceryItem
	MonthKey        string
	MonthCarryCents int64
	Settings        core.Settings
}

// Store is the port implemented by the persistence backends.
type Store interface {
	// Load returns the last saved snapshot, or an empty snapshot with
	// default settings when nothing was saved yet.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the persisted state with the given snapshot.
	Save(ctx context.Context, snap Snapshot) error

	Close() error
}

// Empty returns the snapshot used before anything was persisted.
func Empty() Snapshot {
	return Snapshot{Settings: core.DefaultSettings()}
}
