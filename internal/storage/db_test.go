package storage

import (
	"path/filepath"
	"testing"
)

func TestOpenWithMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "test.db")

	cfg := DefaultConfig(path)
	cfg.AutoMigrate = true
	db, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatal(err)
	}

	tables := []string{"players", "match_ids", "match_participants", "mastery", "collection_progress"}
	for _, table := range tables {
		var name string
		err := db.Conn().QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migration: %v", table, err)
		}
	}
}

func TestOpenNilConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestMigrationVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	mgr, err := NewMigrationManager(path)
	if err != nil {
		t.Fatal(err)
	}
	defer mgr.Close()

	if err := mgr.Up(); err != nil {
		t.Fatal(err)
	}
	version, dirty, err := mgr.Version()
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("migration left database dirty")
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}
