package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures.
// Uses realistic IDs and data that exercises splits, cascades and
// every sector.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	// Persons
	persons := []struct {
		id, ref, first, last, gender, birth, occupation, sector, company, district string
		active                                                                     bool
	}{
		{"AMB-001", "IHK-1001", "Lena", "Hoffmann", "w", "2003-04-12", "Industriekauffrau", "chamber_of_industry", "Nordwerk GmbH", "Lüneburg", true},
		{"AMB-002", "IHK-1002", "Jonas", "Becker", "m", "2002-11-03", "Mechatroniker", "chamber_of_industry", "Elbtech AG", "Harburg", true},
		{"AMB-003", "HWK-2001", "Mia", "Schulz", "w", "2004-01-25", "Tischlerin", "chamber_of_trade", "Holzhaus Schulz", "Lüneburg", true},
		{"AMB-004", "HWK-2002", "Elias", "Wagner", "d", "2001-07-19", "Elektroniker", "chamber_of_trade", "Wagner Elektro", "Uelzen", true},
		{"AMB-005", "", "Sara", "Krüger", "w", "", "Pflegefachfrau", "other", "Klinikum Nord", "Harburg", false},
	}
	for _, p := range persons {
		var ref, birth sql.NullString
		if p.ref != "" {
			ref = sql.NullString{String: p.ref, Valid: true}
		}
		if p.birth != "" {
			birth = sql.NullString{String: p.birth, Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO persons (id, reference_code, active, first_name, last_name, gender, birth_date,
				occupation, sector, company, company_district, direct_contact_allowed, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			p.id, ref, p.active, p.first, p.last, p.gender, birth,
			p.occupation, p.sector, p.company, p.district, now, now,
		); err != nil {
			return fmt.Errorf("seed persons: %w", err)
		}
	}

	// Engagements: ENG-001..004 are one 90-student visit split at capacity 25
	engagements := []struct {
		id, date, school, schoolType, city, district, grade string
		students                                            int
		online, career                                      bool
	}{
		{"ENG-001", "2025-03-14", "Realschule am Park", "Realschule", "Lüneburg", "Lüneburg", "9", 25, false, true},
		{"ENG-002", "2025-03-14", "Realschule am Park", "Realschule", "Lüneburg", "Lüneburg", "9", 25, false, true},
		{"ENG-003", "2025-03-14", "Realschule am Park", "Realschule", "Lüneburg", "Lüneburg", "9", 25, false, true},
		{"ENG-004", "2025-03-14", "Realschule am Park", "Realschule", "Lüneburg", "Lüneburg", "9", 15, false, true},
		{"ENG-005", "2025-04-02", "Gymnasium Harburg", "Gymnasium", "Hamburg", "Harburg", "10", 18, true, false},
		{"ENG-006", "2025-05-20", "Oberschule Uelzen", "Oberschule", "Uelzen", "Uelzen", "8", 22, false, true},
	}
	for _, e := range engagements {
		if _, err := tx.Exec(
			`INSERT INTO engagements (id, event_date, school_name, school_type, partner, city, district,
				career_orientation, online, grade_level, student_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, 'IHK Lüneburg-Wolfsburg', ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.id, e.date, e.school, e.schoolType, e.city, e.district,
			e.career, e.online, e.grade, e.students, now, now,
		); err != nil {
			return fmt.Errorf("seed engagements: %w", err)
		}
	}

	// Links
	links := []struct{ id, personID, engagementID, note string }{
		{"c5a0b1b2-0001-4000-8000-000000000001", "AMB-001", "ENG-001", "Presents the apprenticeship path"},
		{"c5a0b1b2-0002-4000-8000-000000000002", "AMB-002", "ENG-001", ""},
		{"c5a0b1b2-0003-4000-8000-000000000003", "AMB-001", "ENG-002", ""},
		{"c5a0b1b2-0004-4000-8000-000000000004", "AMB-003", "ENG-005", "Brings workpieces"},
		{"c5a0b1b2-0005-4000-8000-000000000005", "AMB-004", "ENG-006", ""},
	}
	for _, l := range links {
		var note sql.NullString
		if l.note != "" {
			note = sql.NullString{String: l.note, Valid: true}
		}
		if _, err := tx.Exec(
			"INSERT INTO links (id, person_id, engagement_id, assigned_on, note, created_at) VALUES (?, ?, ?, DATE('now'), ?, ?)",
			l.id, l.personID, l.engagementID, note, now,
		); err != nil {
			return fmt.Errorf("seed links: %w", err)
		}
	}

	return tx.Commit()
}
