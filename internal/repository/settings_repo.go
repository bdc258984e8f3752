package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Setting is one key-value pair.
type Setting struct {
	Key   string
	Value string
}

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

// Ensure implementation of SettingsRepo at compile time.
var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	upsertSettingSQL = `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectSettingSQL = `SELECT value FROM settings WHERE key=?`
)

// Get returns the value for key. ok is false when the key was never set.
func (r *SettingsSQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectSettingSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select setting %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces a single key.
func (r *SettingsSQLite) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertSettingSQL, key, value, nowString()); err != nil {
		return fmt.Errorf("upsert setting %q: %w", key, err)
	}
	return nil
}

// SetMany writes all pairs in one transaction.
func (r *SettingsSQLite) SetMany(ctx context.Context, settings []Setting) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := nowString()
	for _, s := range settings {
		if _, err := tx.ExecContext(ctx, upsertSettingSQL, s.Key, s.Value, ts); err != nil {
			return fmt.Errorf("upsert setting %q: %w", s.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings transaction: %w", err)
	}
	return nil
}

// sqliteTimeLayout is how timestamps are written to TIMESTAMP columns. The
// fixed-width fraction keeps text comparison in time order.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000"

func nowString() string {
	return time.Now().UTC().Format(sqliteTimeLayout)
}
