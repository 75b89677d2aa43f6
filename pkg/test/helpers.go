package test

import (
	"context"
	"log"
	"testing"

	"taskmanager/internal/adapter/database"
	"taskmanager/internal/adapter/database/sqlite"
)

// InitTestDB returns a migrated in-memory sqlite database. Each call gets a
// fresh, empty database.
func InitTestDB() *database.DB {
	db, err := sqlite.Open(sqlite.Config{Path: sqlite.MemoryPath})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// NewTestDB is InitTestDB bound to the lifetime of t.
func NewTestDB(t testing.TB) *database.DB {
	t.Helper()

	db := InitTestDB()

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CleanDB empties every application table, keeping the schema.
func CleanDB(t testing.TB, db *database.DB) {
	t.Helper()

	for _, table := range []string{"tasks", "users"} {
		if _, err := db.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}
