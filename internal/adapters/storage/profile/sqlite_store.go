package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"swimhealth/internal/adapters/storage"
	domain "swimhealth/internal/domain/profile"
)

var columns = []string{
	"id", "email", "full_name", "date_of_birth", "phone", "emergency_contact", "emergency_phone",
	"national_id", "gender", "blood_type", "father_name", "father_national_id", "mother_name", "mother_national_id",
	"allergies", "previous_surgeries", "chronic_diseases", "created_at", "updated_at",
}

var selectProfile = "SELECT " + strings.Join(columns, ", ") + " FROM profiles"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ProfileStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, selectProfile+" WHERE id = ?", id)
	entity, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Profile by email, ignoring case.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, selectProfile+" WHERE email = ? COLLATE NOCASE", email)
	entity, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// List retrieves Profiles based on the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Profile, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(selectProfile)
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []domain.Profile{}, nil
		}
		queryBuilder.WriteString(" WHERE id IN (")
		queryBuilder.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(filter.IDs)), ", "))
		queryBuilder.WriteString(")")
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	queryBuilder.WriteString(" ORDER BY full_name COLLATE NOCASE, id")

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Profile{}
	for rows.Next() {
		entity, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); created_at is never overwritten
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Profile) error {
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
		"INSERT INTO profiles (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Email,
		entity.FullName,
		storage.NullableDate(entity.DateOfBirth),
		storage.NullableString(entity.Phone),
		storage.NullableString(entity.EmergencyContact),
		storage.NullableString(entity.EmergencyPhone),
		storage.NullableString(entity.NationalID),
		storage.NullableString(entity.Gender),
		storage.NullableString(entity.BloodType),
		storage.NullableString(entity.FatherName),
		storage.NullableString(entity.FatherNationalID),
		storage.NullableString(entity.MotherName),
		storage.NullableString(entity.MotherNationalID),
		storage.NullableString(entity.Allergies),
		storage.NullableString(entity.PreviousSurgeries),
		storage.NullableString(entity.ChronicDiseases),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// scanProfile extracts a Profile from a row scanner function.
func scanProfile(scan func(dest ...any) error) (domain.Profile, error) {
	var p domain.Profile
	var dob, phone, emergencyContact, emergencyPhone sql.NullString
	var nationalID, gender, bloodType sql.NullString
	var fatherName, fatherNationalID, motherName, motherNationalID sql.NullString
	var allergies, surgeries, chronic sql.NullString
	var createdAt, updatedAt string
	err := scan(
		&p.ID, &p.Email, &p.FullName, &dob, &phone, &emergencyContact, &emergencyPhone,
		&nationalID, &gender, &bloodType, &fatherName, &fatherNationalID, &motherName, &motherNationalID,
		&allergies, &surgeries, &chronic, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	p.DateOfBirth = storage.ParseNullTime(dob)
	p.Phone = phone.String
	p.EmergencyContact = emergencyContact.String
	p.EmergencyPhone = emergencyPhone.String
	p.NationalID = nationalID.String
	p.Gender = gender.String
	p.BloodType = bloodType.String
	p.FatherName = fatherName.String
	p.FatherNationalID = fatherNationalID.String
	p.MotherName = motherName.String
	p.MotherNationalID = motherNationalID.String
	p.Allergies = allergies.String
	p.PreviousSurgeries = surgeries.String
	p.ChronicDiseases = chronic.String
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	p.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return p, nil
}
