// Package storage persists the ledger snapshot in SQLite. The whole
// snapshot is rewritten on every save inside a single transaction, matching
// the full re-serialization model of the persistence boundary.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"boodschappen/internal/core"
	"boodschappen/internal/snapshot"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load restores the full snapshot. A fresh database yields an empty
// snapshot with default settings.
func (r *SQLiteRepository) Load(ctx context.Context) (snapshot.Snapshot, error) {
	snap := snapshot.Empty()

	err := r.db.QueryRowContext(ctx,
		`SELECT month_key, month_carry_cents FROM ledger_state WHERE id = 1`,
	).Scan(&snap.MonthKey, &snap.MonthCarryCents)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snapshot.Snapshot{}, fmt.Errorf("load ledger state: %w", err)
	}

	var showPrice int64
	err = r.db.QueryRowContext(ctx,
		`SELECT currency_code, theme, show_price FROM settings WHERE id = 1`,
	).Scan(&snap.Settings.CurrencyCode, &snap.Settings.Theme, &showPrice)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		snap.Settings = core.DefaultSettings()
	case err != nil:
		return snapshot.Snapshot{}, fmt.Errorf("load settings: %w", err)
	default:
		snap.Settings.ShowPrice = showPrice != 0
	}

	storeRows, err := r.db.QueryContext(ctx, `SELECT name FROM known_stores ORDER BY name`)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("load known stores: %w", err)
	}
	defer storeRows.Close()
	for storeRows.Next() {
		var name string
		if err := storeRows.Scan(&name); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("scan known store: %w", err)
		}
		snap.Settings.KnownStores = append(snap.Settings.KnownStores, name)
	}
	if err := storeRows.Err(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("iterate known stores: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, quantity, unit_price_cents, store, recurring, checked, created_at
		FROM items ORDER BY created_at, id`)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it                 core.GroceryItem
			recurring, checked int64
			createdAt          string
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.UnitPrice.Cents,
			&it.Store, &recurring, &checked, &createdAt); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("scan item: %w", err)
		}
		it.Recurring = recurring != 0
		it.Checked = checked != 0
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			it.CreatedAt = t
		}
		snap.Items = append(snap.Items, it)
	}
	if err := rows.Err(); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("iterate items: %w", err)
	}

	slog.InfoContext(ctx, "Ledger snapshot loaded from SQLite",
		"items", len(snap.Items),
		"month_key", snap.MonthKey,
		"month_carry_cents", snap.MonthCarryCents)

	return snap, nil
}

// Save rewrites the persisted snapshot in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, snap snapshot.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	for _, it := range snap.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, name, quantity, unit_price_cents, store, recurring, checked, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ID, it.Name, it.Quantity, it.UnitPrice.Cents, it.Store,
			boolToInt(it.Recurring), boolToInt(it.Checked),
			it.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_state (id, month_key, month_carry_cents) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET month_key = excluded.month_key,
			month_carry_cents = excluded.month_carry_cents`,
		snap.MonthKey, snap.MonthCarryCents,
	); err != nil {
		return fmt.Errorf("save ledger state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, currency_code, theme, show_price) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET currency_code = excluded.currency_code,
			theme = excluded.theme, show_price = excluded.show_price`,
		snap.Settings.CurrencyCode, snap.Settings.Theme, boolToInt(snap.Settings.ShowPrice),
	); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM known_stores`); err != nil {
		return fmt.Errorf("clear known stores: %w", err)
	}
	for _, name := range snap.Settings.KnownStores {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO known_stores (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("insert known store %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
