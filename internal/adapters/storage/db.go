package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; never edit a released entry, append instead.
var migrations = []migration{
	{
		version: 1,
		name:    "accounts_and_roles",
		sql: `
		CREATE TABLE IF NOT EXISTS account (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until TEXT
		);

		CREATE TABLE IF NOT EXISTS user_roles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL CHECK (role IN ('swimmer', 'coach')),
			created_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES account(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_user_roles_role ON user_roles(role);
		`,
	},
	{
		version: 2,
		name:    "profiles",
		sql: `
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			full_name TEXT NOT NULL,
			date_of_birth TEXT,
			phone TEXT,
			emergency_contact TEXT,
			emergency_phone TEXT,
			national_id TEXT,
			gender TEXT,
			blood_type TEXT,
			father_name TEXT,
			father_national_id TEXT,
			mother_name TEXT,
			mother_national_id TEXT,
			allergies TEXT,
			previous_surgeries TEXT,
			chronic_diseases TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (id) REFERENCES account(id) ON DELETE CASCADE
		);
		`,
	},
	{
		version: 3,
		name:    "examinations",
		sql: `
		CREATE TABLE IF NOT EXISTS inbody_examinations (
			id TEXT PRIMARY KEY,
			swimmer_id TEXT NOT NULL,
			examination_date TEXT NOT NULL,
			weight REAL NOT NULL,
			height REAL,
			muscle_mass REAL,
			body_fat_percentage REAL,
			body_water_percentage REAL,
			bone_mass REAL,
			bmi REAL,
			basal_metabolic_rate REAL,
			notes TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (swimmer_id) REFERENCES profiles(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_inbody_swimmer_date ON inbody_examinations(swimmer_id, examination_date DESC);

		CREATE TABLE IF NOT EXISTS medical_results (
			id TEXT PRIMARY KEY,
			swimmer_id TEXT NOT NULL,
			examination_date TEXT NOT NULL,
			blood_pressure_systolic INTEGER,
			blood_pressure_diastolic INTEGER,
			heart_rate INTEGER,
			notes TEXT,
			status TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (swimmer_id) REFERENCES profiles(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_medical_swimmer_date ON medical_results(swimmer_id, examination_date DESC);
		`,
	},
	{
		version: 4,
		name:    "preferences",
		sql: `
		CREATE TABLE IF NOT EXISTS preference (
			account_id TEXT PRIMARY KEY,
			language TEXT NOT NULL DEFAULT 'en',
			theme TEXT NOT NULL DEFAULT 'light',
			updated_at TEXT NOT NULL,
			FOREIGN KEY (account_id) REFERENCES account(id) ON DELETE CASCADE
		);
		`,
	},
}

// LatestSchemaVersion returns the version the database reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB applies every pending migration inside its own transaction.
// PRE: db is a valid database connection
// POST: schema_version equals LatestSchemaVersion()
func MigrateDB(db *sql.DB, dbPath string) error {
	return migrateTo(db, dbPath, LatestSchemaVersion())
}

// migrateTo applies pending migrations up to and including target.
func migrateTo(db *sql.DB, dbPath string, target int) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current || m.version > target {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)",
			m.version, m.name, time.Now().UTC().Format(time.RFC3339)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("migration_applied", "version", m.version, "name", m.name, "db", dbPath)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	var tables int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'").Scan(&tables); err != nil {
		return 0, fmt.Errorf("failed to look up schema_version: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}
