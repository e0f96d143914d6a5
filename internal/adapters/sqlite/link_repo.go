package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/ambassador/internal/core/assignment"
	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/secondary"
)

const linkSelect = `SELECT l.id, l.person_id, l.engagement_id, l.assigned_on, l.note, l.created_at,
	p.first_name, p.last_name, p.sector, e.school_name, e.event_date
	FROM links l
	JOIN persons p ON p.id = l.person_id
	JOIN engagements e ON e.id = l.engagement_id`

// LinkRepository implements secondary.LinkRepository with SQLite.
// It is the only writer of the links table.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new SQLite link repository.
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Insert persists a new link. The UNIQUE(person_id, engagement_id)
// constraint decides races between concurrent inserts of the same pair.
func (r *LinkRepository) Insert(ctx context.Context, link *secondary.LinkRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO links (id, person_id, engagement_id, assigned_on, note)
		VALUES (?, ?, ?, COALESCE(?, DATE('now')), ?)`,
		link.ID, link.PersonID, link.EngagementID, nullString(link.AssignedOn), nullString(link.Note),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return errs.Conflict("link", assignment.DuplicateLinkReason(link.PersonID, link.EngagementID))
		case isForeignKeyViolation(err):
			return r.missingEndpoint(ctx, link.PersonID, link.EngagementID)
		default:
			return fmt.Errorf("failed to create link: %w", err)
		}
	}

	return nil
}

// missingEndpoint names the endpoint that broke a foreign key.
func (r *LinkRepository) missingEndpoint(ctx context.Context, personID, engagementID string) error {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM persons WHERE id = ?", personID).Scan(&n); err == nil && n == 0 {
		return errs.NotFound("person", personID)
	}
	return errs.NotFound("engagement", engagementID)
}

// Delete removes the link for a pair and reports whether a row was removed.
func (r *LinkRepository) Delete(ctx context.Context, personID, engagementID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM links WHERE person_id = ? AND engagement_id = ?",
		personID, engagementID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// Get retrieves the link for a pair, or nil if there is none.
func (r *LinkRepository) Get(ctx context.Context, personID, engagementID string) (*secondary.LinkRecord, error) {
	row := r.db.QueryRowContext(ctx,
		linkSelect+" WHERE l.person_id = ? AND l.engagement_id = ?",
		personID, engagementID,
	)

	record, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return record, nil
}

// ListByPerson retrieves a person's links ordered by engagement date.
func (r *LinkRepository) ListByPerson(ctx context.Context, personID string) ([]*secondary.LinkRecord, error) {
	return r.query(ctx, linkSelect+" WHERE l.person_id = ? ORDER BY e.event_date, e.id", personID)
}

// ListByEngagement retrieves an engagement's links ordered by person name.
func (r *LinkRepository) ListByEngagement(ctx context.Context, engagementID string) ([]*secondary.LinkRecord, error) {
	return r.query(ctx, linkSelect+" WHERE l.engagement_id = ? ORDER BY p.last_name, p.first_name, p.id", engagementID)
}

// List retrieves links matching the given filters.
func (r *LinkRepository) List(ctx context.Context, filters secondary.LinkFilters) ([]*secondary.LinkRecord, error) {
	where, args := linkWhere(filters)
	query := linkSelect + where + " ORDER BY e.event_date DESC, p.last_name, p.first_name, l.id"

	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	return r.query(ctx, query, args...)
}

// Count returns the number of links matching the given filters.
func (r *LinkRepository) Count(ctx context.Context, filters secondary.LinkFilters) (int, error) {
	where, args := linkWhere(filters)

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM links l"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}

	return count, nil
}

// UpdateNote replaces the note of an existing link.
func (r *LinkRepository) UpdateNote(ctx context.Context, personID, engagementID, note string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE links SET note = ? WHERE person_id = ? AND engagement_id = ?",
		nullString(note), personID, engagementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update link note: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.NotFound("link", personID+"/"+engagementID)
	}

	return nil
}

func (r *LinkRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.LinkRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*secondary.LinkRecord
	for rows.Next() {
		record, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, record)
	}

	return links, rows.Err()
}

func linkWhere(filters secondary.LinkFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}

	if filters.PersonID != "" {
		where += " AND l.person_id = ?"
		args = append(args, filters.PersonID)
	}

	if filters.EngagementID != "" {
		where += " AND l.engagement_id = ?"
		args = append(args, filters.EngagementID)
	}

	return where, args
}

func scanLink(row rowScanner) (*secondary.LinkRecord, error) {
	var (
		assignedOn, note, createdAt sql.NullString
	)

	record := &secondary.LinkRecord{}
	err := row.Scan(&record.ID, &record.PersonID, &record.EngagementID, &assignedOn, &note, &createdAt,
		&record.PersonFirstName, &record.PersonLastName, &record.PersonSector, &record.SchoolName, &record.EventDate)
	if err != nil {
		return nil, err
	}

	record.AssignedOn = assignedOn.String
	record.Note = note.String
	record.CreatedAt = timestamp(createdAt)

	return record, nil
}

// Ensure LinkRepository implements the interface.
var _ secondary.LinkRepository = (*LinkRepository)(nil)
