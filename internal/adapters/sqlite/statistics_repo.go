package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/secondary"
)

// StatisticsRepository implements secondary.StatisticsRepository.
// Rollups are mapped straight into structs through sqlx.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new SQLite statistics repository.
func NewStatisticsRepository(db *sql.DB) *StatisticsRepository {
	return &StatisticsRepository{db: sqlx.NewDb(db, "sqlite3")}
}

// Overview returns ledger-wide counts.
func (r *StatisticsRepository) Overview(ctx context.Context) (*secondary.OverviewRecord, error) {
	record := &secondary.OverviewRecord{}
	err := r.db.GetContext(ctx, record, `
		SELECT
			(SELECT COUNT(*) FROM persons WHERE active = 1) AS active_persons,
			(SELECT COUNT(*) FROM persons WHERE active = 0) AS inactive_persons,
			(SELECT COUNT(*) FROM engagements) AS engagements,
			(SELECT COALESCE(SUM(student_count), 0) FROM engagements) AS students,
			(SELECT COUNT(*) FROM engagements WHERE online = 1) AS online_engagements,
			(SELECT COUNT(*) FROM links) AS links,
			(SELECT COUNT(*) FROM persons p
				WHERE NOT EXISTS (SELECT 1 FROM links l WHERE l.person_id = p.id)) AS persons_without_link`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute overview: %w", err)
	}

	if err := r.db.SelectContext(ctx, &record.PersonsBySector,
		"SELECT sector AS bucket, COUNT(*) AS n FROM persons GROUP BY sector ORDER BY n DESC, bucket"); err != nil {
		return nil, fmt.Errorf("failed to group persons by sector: %w", err)
	}

	if err := r.db.SelectContext(ctx, &record.EngagementsByDistrict,
		`SELECT COALESCE(NULLIF(district, ''), '-') AS bucket, COUNT(*) AS n
		FROM engagements GROUP BY bucket ORDER BY n DESC, bucket`); err != nil {
		return nil, fmt.Errorf("failed to group engagements by district: %w", err)
	}

	if err := r.db.SelectContext(ctx, &record.EngagementsByMonth,
		`SELECT SUBSTR(event_date, 1, 7) AS bucket, COUNT(*) AS n
		FROM engagements GROUP BY bucket ORDER BY bucket`); err != nil {
		return nil, fmt.Errorf("failed to group engagements by month: %w", err)
	}

	return record, nil
}

// EngagementBreakdown returns the linked persons of an engagement grouped by sector.
func (r *StatisticsRepository) EngagementBreakdown(ctx context.Context, engagementID string) (*secondary.EngagementBreakdownRecord, error) {
	if err := r.mustExist(ctx, "engagements", "engagement", engagementID); err != nil {
		return nil, err
	}

	record := &secondary.EngagementBreakdownRecord{EngagementID: engagementID}
	if err := r.db.GetContext(ctx, &record.LinkedCount,
		"SELECT COUNT(*) FROM links WHERE engagement_id = ?", engagementID); err != nil {
		return nil, fmt.Errorf("failed to count engagement links: %w", err)
	}

	if err := r.db.SelectContext(ctx, &record.BySector,
		`SELECT p.sector AS bucket, COUNT(*) AS n
		FROM links l JOIN persons p ON p.id = l.person_id
		WHERE l.engagement_id = ?
		GROUP BY p.sector ORDER BY n DESC, bucket`, engagementID); err != nil {
		return nil, fmt.Errorf("failed to group engagement links by sector: %w", err)
	}

	return record, nil
}

// PersonBreakdown returns the linked engagements of a person grouped by
// school type and district.
func (r *StatisticsRepository) PersonBreakdown(ctx context.Context, personID string) (*secondary.PersonBreakdownRecord, error) {
	if err := r.mustExist(ctx, "persons", "person", personID); err != nil {
		return nil, err
	}

	var totals struct {
		LinkedCount     int            `db:"linked"`
		StudentsReached int            `db:"students"`
		FirstDate       sql.NullString `db:"first_date"`
		LastDate        sql.NullString `db:"last_date"`
	}
	err := r.db.GetContext(ctx, &totals,
		`SELECT COUNT(*) AS linked, COALESCE(SUM(e.student_count), 0) AS students,
			MIN(e.event_date) AS first_date, MAX(e.event_date) AS last_date
		FROM links l JOIN engagements e ON e.id = l.engagement_id
		WHERE l.person_id = ?`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to total person links: %w", err)
	}

	record := &secondary.PersonBreakdownRecord{
		PersonID:        personID,
		LinkedCount:     totals.LinkedCount,
		StudentsReached: totals.StudentsReached,
		FirstDate:       totals.FirstDate.String,
		LastDate:        totals.LastDate.String,
	}

	if err := r.db.SelectContext(ctx, &record.BySchoolType,
		`SELECT COALESCE(NULLIF(e.school_type, ''), '-') AS bucket, COUNT(*) AS n
		FROM links l JOIN engagements e ON e.id = l.engagement_id
		WHERE l.person_id = ?
		GROUP BY bucket ORDER BY n DESC, bucket`, personID); err != nil {
		return nil, fmt.Errorf("failed to group person links by school type: %w", err)
	}

	if err := r.db.SelectContext(ctx, &record.ByDistrict,
		`SELECT COALESCE(NULLIF(e.district, ''), '-') AS bucket, COUNT(*) AS n
		FROM links l JOIN engagements e ON e.id = l.engagement_id
		WHERE l.person_id = ?
		GROUP BY bucket ORDER BY n DESC, bucket`, personID); err != nil {
		return nil, fmt.Errorf("failed to group person links by district: %w", err)
	}

	return record, nil
}

func (r *StatisticsRepository) mustExist(ctx context.Context, table, entity, id string) error {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to look up %s: %w", entity, err)
	}
	if n == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}

// Ensure StatisticsRepository implements the interface.
var _ secondary.StatisticsRepository = (*StatisticsRepository)(nil)
