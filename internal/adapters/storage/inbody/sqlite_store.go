package inbody

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"swimhealth/internal/adapters/storage"
	domain "swimhealth/internal/domain/inbody"
)

var columns = []string{
	"id", "swimmer_id", "examination_date", "weight", "height", "muscle_mass",
	"body_fat_percentage", "body_water_percentage", "bone_mass", "bmi", "basal_metabolic_rate",
	"notes", "created_at", "updated_at",
}

var selectExamination = "SELECT " + strings.Join(columns, ", ") + " FROM inbody_examinations"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new InBodyStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Examination by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Examination, error) {
	row := s.db.QueryRowContext(ctx, selectExamination+" WHERE id = ?", id)
	entity, err := scanExamination(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Examination{}, fmt.Errorf("inbody examination not found: %w", err)
	}
	return entity, err
}

// List retrieves Examinations newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by examination_date DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Examination, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(selectExamination)
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

	results := []domain.Examination{}
	for rows.Next() {
		entity, err := scanExamination(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists an Examination to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Examination) error {
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
		"INSERT INTO inbody_examinations (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.SwimmerID,
		entity.ExaminationDate.Format(storage.DateLayout),
		entity.Weight,
		storage.NullableFloat(entity.Height),
		storage.NullableFloat(entity.MuscleMass),
		storage.NullableFloat(entity.BodyFatPercentage),
		storage.NullableFloat(entity.BodyWaterPercentage),
		storage.NullableFloat(entity.BoneMass),
		storage.NullableFloat(entity.BMI),
		storage.NullableFloat(entity.BasalMetabolicRate),
		storage.NullableString(entity.Notes),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes an Examination from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM inbody_examinations WHERE id = ?", id)
	return err
}

// scanExamination extracts an Examination from a row scanner function.
func scanExamination(scan func(dest ...any) error) (domain.Examination, error) {
	var e domain.Examination
	var examDate, createdAt, updatedAt string
	var height, muscle, fat, water, bone, bmi, bmr sql.NullFloat64
	var notes sql.NullString
	err := scan(
		&e.ID, &e.SwimmerID, &examDate, &e.Weight,
		&height, &muscle, &fat, &water, &bone, &bmi, &bmr,
		&notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Examination{}, err
	}
	e.ExaminationDate, _ = storage.ParseTime(examDate)
	e.Height = storage.FloatPtr(height)
	e.MuscleMass = storage.FloatPtr(muscle)
	e.BodyFatPercentage = storage.FloatPtr(fat)
	e.BodyWaterPercentage = storage.FloatPtr(water)
	e.BoneMass = storage.FloatPtr(bone)
	e.BMI = storage.FloatPtr(bmi)
	e.BasalMetabolicRate = storage.FloatPtr(bmr)
	e.Notes = notes.String
	e.CreatedAt, _ = storage.ParseTime(createdAt)
	e.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return e, nil
}
