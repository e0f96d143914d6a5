package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/secondary"
)

const engagementColumns = `id, event_date, school_name, school_type, partner, city, district,
	career_orientation, online, grade_level, student_count, created_at, updated_at`

// EngagementRepository implements secondary.EngagementRepository with SQLite.
type EngagementRepository struct {
	db *sql.DB
}

// NewEngagementRepository creates a new SQLite engagement repository.
func NewEngagementRepository(db *sql.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// CreateBatch persists engagements in one transaction, assigning sequential IDs.
func (r *EngagementRepository) CreateBatch(ctx context.Context, engagements []*secondary.EngagementRecord) error {
	if len(engagements) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxID int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM engagements",
	).Scan(&maxID)
	if err != nil {
		return fmt.Errorf("failed to get next engagement ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO engagements (id, event_date, school_name, school_type, partner, city, district,
			career_orientation, online, grade_level, student_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare engagement insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, len(engagements))
	for i, e := range engagements {
		ids[i] = fmt.Sprintf("ENG-%03d", maxID+i+1)
		_, err := stmt.ExecContext(ctx,
			ids[i], e.Date, e.SchoolName, nullString(e.SchoolType), nullString(e.Partner),
			nullString(e.City), nullString(e.District), e.CareerOrientation, e.Online,
			nullString(e.GradeLevel), e.StudentCount,
		)
		if err != nil {
			if isCheckViolation(err) {
				return errs.NewValidation("", errs.FieldError{
					Field:   "student_count",
					Message: fmt.Sprintf("must be positive (got %d)", e.StudentCount),
				})
			}
			return fmt.Errorf("failed to create engagement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit engagements: %w", err)
	}

	for i, e := range engagements {
		e.ID = ids[i]
	}
	return nil
}

// GetByID retrieves an engagement by its ID.
func (r *EngagementRepository) GetByID(ctx context.Context, id string) (*secondary.EngagementRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+engagementColumns+" FROM engagements WHERE id = ?", id)

	record, err := scanEngagement(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("engagement", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}

	return record, nil
}

// List retrieves engagements matching the given filters.
func (r *EngagementRepository) List(ctx context.Context, filters secondary.EngagementFilters) ([]*secondary.EngagementRecord, error) {
	where, args := engagementWhere(filters)
	query := "SELECT " + engagementColumns + " FROM engagements" + where + " ORDER BY event_date, id"

	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	return r.query(ctx, query, args...)
}

// Count returns the number of engagements matching the given filters.
func (r *EngagementRepository) Count(ctx context.Context, filters secondary.EngagementFilters) (int, error) {
	where, args := engagementWhere(filters)

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM engagements"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count engagements: %w", err)
	}

	return count, nil
}

// ListAll retrieves every engagement ordered by date.
func (r *EngagementRepository) ListAll(ctx context.Context) ([]*secondary.EngagementRecord, error) {
	return r.query(ctx, "SELECT "+engagementColumns+" FROM engagements ORDER BY event_date, id")
}

// Update replaces every mutable field of an existing engagement.
func (r *EngagementRepository) Update(ctx context.Context, e *secondary.EngagementRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE engagements SET event_date = ?, school_name = ?, school_type = ?, partner = ?, city = ?,
			district = ?, career_orientation = ?, online = ?, grade_level = ?, student_count = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		e.Date, e.SchoolName, nullString(e.SchoolType), nullString(e.Partner), nullString(e.City),
		nullString(e.District), e.CareerOrientation, e.Online, nullString(e.GradeLevel),
		e.StudentCount, e.ID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return errs.NewValidation("", errs.FieldError{
				Field:   "student_count",
				Message: fmt.Sprintf("must be positive (got %d)", e.StudentCount),
			})
		}
		return fmt.Errorf("failed to update engagement: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("engagement", e.ID)
	}

	return nil
}

// Delete removes an engagement from persistence.
func (r *EngagementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM engagements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("engagement", id)
	}

	return nil
}

// GetNextID returns the next available engagement ID.
func (r *EngagementRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM engagements",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next engagement ID: %w", err)
	}

	return fmt.Sprintf("ENG-%03d", maxID+1), nil
}

// DistinctDistricts returns the districts in use.
func (r *EngagementRepository) DistinctDistricts(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "district")
}

// DistinctSchoolTypes returns the school types in use.
func (r *EngagementRepository) DistinctSchoolTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "school_type")
}

func (r *EngagementRepository) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT DISTINCT %[1]s FROM engagements WHERE %[1]s IS NOT NULL AND %[1]s != '' ORDER BY %[1]s", column))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

func (r *EngagementRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.EngagementRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	defer rows.Close()

	var engagements []*secondary.EngagementRecord
	for rows.Next() {
		record, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		engagements = append(engagements, record)
	}

	return engagements, rows.Err()
}

func engagementWhere(filters secondary.EngagementFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}

	if filters.From != "" {
		where += " AND event_date >= ?"
		args = append(args, filters.From)
	}

	if filters.To != "" {
		where += " AND event_date <= ?"
		args = append(args, filters.To)
	}

	if filters.District != "" {
		where += " AND district = ?"
		args = append(args, filters.District)
	}

	if filters.SchoolType != "" {
		where += " AND school_type = ?"
		args = append(args, filters.SchoolType)
	}

	if filters.Online != nil {
		where += " AND online = ?"
		args = append(args, *filters.Online)
	}

	if filters.CareerOrientation != nil {
		where += " AND career_orientation = ?"
		args = append(args, *filters.CareerOrientation)
	}

	if term := strings.TrimSpace(filters.Search); term != "" {
		where += " AND (school_name LIKE '%' || ? || '%' OR city LIKE '%' || ? || '%')"
		args = append(args, term, term)
	}

	return where, args
}

func scanEngagement(row rowScanner) (*secondary.EngagementRecord, error) {
	var (
		schoolType, partner, city, district sql.NullString
		gradeLevel                          sql.NullString
		createdAt, updatedAt                sql.NullString
	)

	record := &secondary.EngagementRecord{}
	err := row.Scan(&record.ID, &record.Date, &record.SchoolName, &schoolType, &partner, &city, &district,
		&record.CareerOrientation, &record.Online, &gradeLevel, &record.StudentCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.SchoolType = schoolType.String
	record.Partner = partner.String
	record.City = city.String
	record.District = district.String
	record.GradeLevel = gradeLevel.String
	record.CreatedAt = timestamp(createdAt)
	record.UpdatedAt = timestamp(updatedAt)

	return record, nil
}

// Ensure EngagementRepository implements the interface.
var _ secondary.EngagementRepository = (*EngagementRepository)(nil)
