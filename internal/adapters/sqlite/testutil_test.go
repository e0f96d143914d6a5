// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// Do not hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/ambassador/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// Foreign keys are on so cascades behave as in production; a single
// connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedPerson inserts a test person and returns its ID.
func seedPerson(t *testing.T, db *sql.DB, id, firstName, lastName, sector string, active bool) string {
	t.Helper()
	if id == "" {
		id = "AMB-001"
	}
	if firstName == "" {
		firstName = "Lena"
	}
	if lastName == "" {
		lastName = "Hoffmann"
	}
	if sector == "" {
		sector = "other"
	}
	_, err := db.Exec(
		"INSERT INTO persons (id, first_name, last_name, sector, active) VALUES (?, ?, ?, ?, ?)",
		id, firstName, lastName, sector, active,
	)
	if err != nil {
		t.Fatalf("failed to seed person: %v", err)
	}
	return id
}

// seedEngagement inserts a test engagement and returns its ID.
func seedEngagement(t *testing.T, db *sql.DB, id, date, school, district string, students int) string {
	t.Helper()
	if id == "" {
		id = "ENG-001"
	}
	if date == "" {
		date = "2025-03-14"
	}
	if school == "" {
		school = "Realschule am Park"
	}
	if students == 0 {
		students = 25
	}
	_, err := db.Exec(
		"INSERT INTO engagements (id, event_date, school_name, school_type, district, student_count) VALUES (?, ?, ?, 'Realschule', ?, ?)",
		id, date, school, district, students,
	)
	if err != nil {
		t.Fatalf("failed to seed engagement: %v", err)
	}
	return id
}

// seedLink inserts a test link and returns its ID.
func seedLink(t *testing.T, db *sql.DB, id, personID, engagementID string) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO links (id, person_id, engagement_id, assigned_on) VALUES (?, ?, ?, '2025-02-01')",
		id, personID, engagementID,
	)
	if err != nil {
		t.Fatalf("failed to seed link: %v", err)
	}
	return id
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
