// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"swimhealth/internal/adapters/storage"
)

// OpenDB returns a fully migrated in-memory database closed at test cleanup.
// A single connection keeps the in-memory schema and PRAGMAs shared.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// InsertAccount adds a bare account row so dependent rows satisfy foreign keys.
func InsertAccount(t testing.TB, db *sql.DB, id, email string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO account (id, email, created_at) VALUES (?, ?, '2026-01-01T00:00:00Z')`, id, email)
	if err != nil {
		t.Fatalf("insert account %s: %v", id, err)
	}
}

// InsertSwimmer adds an account and its profile.
func InsertSwimmer(t testing.TB, db *sql.DB, id, email, name string) {
	t.Helper()
	InsertAccount(t, db, id, email)
	_, err := db.Exec(`INSERT INTO profiles (id, email, full_name, created_at, updated_at) VALUES (?, ?, ?, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`, id, email, name)
	if err != nil {
		t.Fatalf("insert profile %s: %v", id, err)
	}
}
