package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pixoonair.db")

	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	for _, table := range []string{"settings", "activity_events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			_ = db.Close()
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	// Reopening must not fail on existing tables.
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	db2, err := InitDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = db2.Close()
}
