package medical

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"swimhealth/internal/adapters/storage"
	domain "swimhealth/internal/domain/medical"
)

var columns = []string{
	"id", "swimmer_id", "examination_date", "blood_pressure_systolic", "blood_pressure_diastolic",
	"heart_rate", "notes", "status", "created_at", "updated_at",
}

var selectResult = "SELECT " + strings.Join(columns, ", ") + " FROM medical_results"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new MedicalStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Result by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Result, error) {
	row := s.db.QueryRowContext(ctx, selectResult+" WHERE id = ?", id)
	entity, err := scanResult(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Result{}, fmt.Errorf("medical result not found: %w", err)
	}
	return entity, err
}

// List retrieves Results newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by examination_date DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Result, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(selectResult)
	if filter.SwimmerID != "" {
		queryBuilder.WriteString(" WHERE swimmer_id = ?")
		args = append(args, filter.SwimmerID)
	}
	queryBuilder.WriteString(" ORDER BY examination_date DESC, created_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Result{}
	for rows.Next() {
		entity, err := scanResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Result to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]string, len(columns))
	var updates []string
	for i, c := range columns {
		placeholders[i] = "?"
		if c != "id" && c != "created_at" {
			updates = append(updates, c+"=excluded."+c)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO medical_results (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.SwimmerID,
		entity.ExaminationDate.Format(storage.DateLayout),
		storage.NullableInt(entity.BloodPressureSystolic),
		storage.NullableInt(entity.BloodPressureDiastolic),
		storage.NullableInt(entity.HeartRate),
		storage.NullableString(entity.Notes),
		storage.NullableString(string(entity.Status)),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Result from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM medical_results WHERE id = ?", id)
	return err
}

// scanResult extracts a Result from a row scanner function.
// A NULL or unknown status reads back as pending.
func scanResult(scan func(dest ...any) error) (domain.Result, error) {
	var r domain.Result
	var examDate, createdAt, updatedAt string
	var systolic, diastolic, heartRate sql.NullInt64
	var notes, status sql.NullString
	err := scan(
		&r.ID, &r.SwimmerID, &examDate,
		&systolic, &diastolic, &heartRate,
		&notes, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Result{}, err
	}
	r.ExaminationDate, _ = storage.ParseTime(examDate)
	r.BloodPressureSystolic = storage.IntPtr(systolic)
	r.BloodPressureDiastolic = storage.IntPtr(diastolic)
	r.HeartRate = storage.IntPtr(heartRate)
	r.Notes = notes.String
	r.Status = domain.ParseStatus(status.String)
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	r.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return r, nil
}
