package storage

import (
	"database/sql"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func openMemDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// One connection, or each one gets its own empty :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("%s: %v", strings.Fields(query)[0], err)
	}
}

func tableSet(t *testing.T, db *sql.DB) map[string]bool {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatal(err)
		}
		out[name] = true
	}
	return out
}

func TestMigrateDB_CreatesSchema(t *testing.T) {
	db := openMemDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	tables := tableSet(t, db)
	for _, want := range []string{"account", "user_roles", "profiles", "inbody_examinations", "medical_results", "preference", "schema_version"} {
		if !tables[want] {
			t.Errorf("missing table %s", want)
		}
	}
	if len(tables) != 7 {
		t.Errorf("got %d tables: %v", len(tables), tables)
	}
	if v, _ := SchemaVersion(db); v != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", v, LatestSchemaVersion())
	}
}

func TestMigrateDB_VersionsAreSequential(t *testing.T) {
	for i, m := range migrations {
		if m.version != i+1 {
			t.Errorf("migrations[%d].version = %d, want %d", i, m.version, i+1)
		}
		if m.name == "" {
			t.Errorf("migration %d has no name", m.version)
		}
	}
}

func TestSchemaVersion_FreshDatabase(t *testing.T) {
	v, err := SchemaVersion(openMemDB(t))
	if err != nil || v != 0 {
		t.Errorf("SchemaVersion = %d, %v; want 0, nil", v, err)
	}
}

func TestMigrateDB_RerunIsNoop(t *testing.T) {
	db := openMemDB(t)
	for i := 0; i < 2; i++ {
		if err := MigrateDB(db, ":memory:"); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	var applied int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != len(migrations) {
		t.Errorf("schema_version rows = %d, want %d", applied, len(migrations))
	}
}

// Rows written at an earlier version must survive the later steps.
func TestMigrateDB_UpgradeKeepsRecords(t *testing.T) {
	db := openMemDB(t)
	if err := migrateTo(db, ":memory:", 3); err != nil {
		t.Fatalf("migrate to 3: %v", err)
	}
	if tableSet(t, db)["preference"] {
		t.Fatal("preference table created before its migration")
	}
	mustExec(t, db, `INSERT INTO account (id, email, created_at) VALUES ('s1', 'ann@club.test', '2026-01-01T00:00:00Z')`)
	mustExec(t, db, `INSERT INTO profiles (id, email, full_name, created_at, updated_at) VALUES ('s1', 'ann@club.test', 'Ann Lee', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	mustExec(t, db, `INSERT INTO medical_results (id, swimmer_id, examination_date, heart_rate, status, created_at, updated_at) VALUES ('r1', 's1', '2026-01-01', 72, 'normal', '2026-01-01T10:00:00Z', '2026-01-01T10:00:00Z')`)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	var name string
	var hr int
	err := db.QueryRow(`SELECT p.full_name, m.heart_rate FROM profiles p JOIN medical_results m ON m.swimmer_id = p.id WHERE p.id = 's1'`).Scan(&name, &hr)
	if err != nil {
		t.Fatalf("records lost: %v", err)
	}
	if name != "Ann Lee" || hr != 72 {
		t.Errorf("got %q, %d", name, hr)
	}
}

func TestMigrateDB_Constraints(t *testing.T) {
	db := openMemDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatal(err)
	}
	mustExec(t, db, `INSERT INTO account (id, email, created_at) VALUES ('a1', 'x@club.test', '2026-01-01T00:00:00Z')`)

	tests := []struct {
		name  string
		query string
	}{
		{"examination for unknown swimmer", `INSERT INTO inbody_examinations (id, swimmer_id, examination_date, weight, created_at, updated_at) VALUES ('e1', 'ghost', '2026-01-01', 70, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`},
		{"role outside the closed set", `INSERT INTO user_roles (id, user_id, role, created_at) VALUES ('r1', 'a1', 'admin', '2026-01-01T00:00:00Z')`},
		{"email differing only in case", `INSERT INTO account (id, email, created_at) VALUES ('a2', 'X@CLUB.test', '2026-01-01T00:00:00Z')`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.Exec(tt.query); err == nil {
				t.Error("insert succeeded, want constraint violation")
			}
		})
	}
}

// A database created by hand before version tracking keeps its rows.
func TestMigrateDB_AdoptsUntrackedDatabase(t *testing.T) {
	db := openMemDB(t)
	mustExec(t, db, `CREATE TABLE account (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE COLLATE NOCASE, password_hash TEXT NOT NULL DEFAULT '', created_at TEXT NOT NULL, failed_logins INTEGER NOT NULL DEFAULT 0, locked_until TEXT)`)
	mustExec(t, db, `INSERT INTO account (id, email, created_at) VALUES ('a1', 'coach@club.test', '2026-01-01T00:00:00Z')`)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	var email string
	if err := db.QueryRow("SELECT email FROM account WHERE id = 'a1'").Scan(&email); err != nil || email != "coach@club.test" {
		t.Errorf("email = %q, %v", email, err)
	}
}
