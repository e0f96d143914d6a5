// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/secondary"
)

const personColumns = `id, reference_code, active, first_name, last_name, gender, birth_date,
	occupation, sector, mobile, email_work, email_private, phone_work, phone_private,
	direct_contact_allowed, company, company_district, notes, created_at, updated_at`

// PersonRepository implements secondary.PersonRepository with SQLite.
type PersonRepository struct {
	db *sql.DB
}

// NewPersonRepository creates a new SQLite person repository.
func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create persists a new person.
func (r *PersonRepository) Create(ctx context.Context, p *secondary.PersonRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO persons (id, reference_code, active, first_name, last_name, gender, birth_date,
			occupation, sector, mobile, email_work, email_private, phone_work, phone_private,
			direct_contact_allowed, company, company_district, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, nullString(p.ReferenceCode), p.Active, p.FirstName, p.LastName, nullString(p.Gender),
		nullString(p.BirthDate), nullString(p.Occupation), p.Sector, nullString(p.Mobile),
		nullString(p.EmailWork), nullString(p.EmailPrivate), nullString(p.PhoneWork),
		nullString(p.PhonePrivate), p.DirectContactAllowed, nullString(p.Company),
		nullString(p.CompanyDistrict), nullString(p.Notes),
	)
	if err != nil {
		return translatePersonError(err, p)
	}

	return nil
}

// GetByID retrieves a person by its ID.
func (r *PersonRepository) GetByID(ctx context.Context, id string) (*secondary.PersonRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+personColumns+" FROM persons WHERE id = ?", id)

	record, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("person", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return record, nil
}

// List retrieves persons matching the given filters.
func (r *PersonRepository) List(ctx context.Context, filters secondary.PersonFilters) ([]*secondary.PersonRecord, error) {
	where, args := personWhere(filters)
	query := "SELECT " + personColumns + " FROM persons" + where + " ORDER BY last_name, first_name, id"

	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	return r.query(ctx, query, args...)
}

// Count returns the number of persons matching the given filters.
func (r *PersonRepository) Count(ctx context.Context, filters secondary.PersonFilters) (int, error) {
	where, args := personWhere(filters)

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM persons"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count persons: %w", err)
	}

	return count, nil
}

// ListActive retrieves every active person.
func (r *PersonRepository) ListActive(ctx context.Context) ([]*secondary.PersonRecord, error) {
	return r.query(ctx, "SELECT "+personColumns+" FROM persons WHERE active = 1 ORDER BY last_name, first_name, id")
}

// Update replaces every mutable field of an existing person.
func (r *PersonRepository) Update(ctx context.Context, p *secondary.PersonRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE persons SET reference_code = ?, active = ?, first_name = ?, last_name = ?, gender = ?,
			birth_date = ?, occupation = ?, sector = ?, mobile = ?, email_work = ?, email_private = ?,
			phone_work = ?, phone_private = ?, direct_contact_allowed = ?, company = ?,
			company_district = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		nullString(p.ReferenceCode), p.Active, p.FirstName, p.LastName, nullString(p.Gender),
		nullString(p.BirthDate), nullString(p.Occupation), p.Sector, nullString(p.Mobile),
		nullString(p.EmailWork), nullString(p.EmailPrivate), nullString(p.PhoneWork),
		nullString(p.PhonePrivate), p.DirectContactAllowed, nullString(p.Company),
		nullString(p.CompanyDistrict), nullString(p.Notes), p.ID,
	)
	if err != nil {
		return translatePersonError(err, p)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("person", p.ID)
	}

	return nil
}

// Delete removes a person from persistence.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("person", id)
	}

	return nil
}

// GetNextID returns the next available person ID.
func (r *PersonRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM persons",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next person ID: %w", err)
	}

	return fmt.Sprintf("AMB-%03d", maxID+1), nil
}

// ExistsByIdentity reports whether another person has the same identity.
// An empty birth date matches other persons without a birth date.
func (r *PersonRepository) ExistsByIdentity(ctx context.Context, firstName, lastName, birthDate, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM persons
		WHERE first_name = ? COLLATE NOCASE AND last_name = ? COLLATE NOCASE
			AND COALESCE(birth_date, '') = ? AND id != ?`,
		firstName, lastName, birthDate, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check person identity: %w", err)
	}

	return count > 0, nil
}

// ExistsByReferenceCode reports whether another person carries code.
func (r *PersonRepository) ExistsByReferenceCode(ctx context.Context, code, excludeID string) (bool, error) {
	if code == "" {
		return false, nil
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM persons WHERE reference_code = ? AND id != ?",
		code, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check reference code: %w", err)
	}

	return count > 0, nil
}

func (r *PersonRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.PersonRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*secondary.PersonRecord
	for rows.Next() {
		record, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, record)
	}

	return persons, rows.Err()
}

func personWhere(filters secondary.PersonFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}

	if filters.Active != nil {
		where += " AND active = ?"
		args = append(args, *filters.Active)
	}

	if filters.Sector != "" {
		where += " AND sector = ?"
		args = append(args, filters.Sector)
	}

	if filters.District != "" {
		where += " AND company_district = ?"
		args = append(args, filters.District)
	}

	if term := strings.TrimSpace(filters.Search); term != "" {
		where += ` AND (first_name LIKE '%' || ? || '%' OR last_name LIKE '%' || ? || '%'
			OR occupation LIKE '%' || ? || '%' OR company LIKE '%' || ? || '%')`
		args = append(args, term, term, term, term)
	}

	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*secondary.PersonRecord, error) {
	var (
		ref, gender, birth, occupation  sql.NullString
		mobile, emailWork, emailPrivate sql.NullString
		phoneWork, phonePrivate         sql.NullString
		company, companyDistrict, notes sql.NullString
		createdAt, updatedAt            sql.NullString
	)

	record := &secondary.PersonRecord{}
	err := row.Scan(&record.ID, &ref, &record.Active, &record.FirstName, &record.LastName, &gender, &birth,
		&occupation, &record.Sector, &mobile, &emailWork, &emailPrivate, &phoneWork, &phonePrivate,
		&record.DirectContactAllowed, &company, &companyDistrict, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.ReferenceCode = ref.String
	record.Gender = gender.String
	record.BirthDate = birth.String
	record.Occupation = occupation.String
	record.Mobile = mobile.String
	record.EmailWork = emailWork.String
	record.EmailPrivate = emailPrivate.String
	record.PhoneWork = phoneWork.String
	record.PhonePrivate = phonePrivate.String
	record.Company = company.String
	record.CompanyDistrict = companyDistrict.String
	record.Notes = notes.String
	record.CreatedAt = timestamp(createdAt)
	record.UpdatedAt = timestamp(updatedAt)

	return record, nil
}

func translatePersonError(err error, p *secondary.PersonRecord) error {
	switch {
	case isUniqueViolation(err):
		msg := err.Error()
		switch {
		case strings.Contains(msg, "reference_code"):
			return errs.Conflict("person", fmt.Sprintf("reference code %s is already in use", p.ReferenceCode))
		case strings.Contains(msg, "idx_persons_identity"), strings.Contains(msg, "first_name"):
			return errs.Conflict("person", fmt.Sprintf("%s %s (born %s) is already registered", p.FirstName, p.LastName, p.BirthDate))
		default:
			return errs.Conflict("person", fmt.Sprintf("id %s is already in use", p.ID))
		}
	case isCheckViolation(err):
		return errs.NewValidation(fmt.Sprintf("person %s violates a field constraint", p.ID))
	default:
		return fmt.Errorf("failed to save person: %w", err)
	}
}

// Ensure PersonRepository implements the interface.
var _ secondary.PersonRepository = (*PersonRepository)(nil)
