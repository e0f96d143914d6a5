package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
// It reflects the state after all migrations.
//
// This is the single source of truth for the database schema. Repository
// tests load it through GetSchemaSQL() instead of declaring their own tables,
// so a column referenced by code but missing here fails with "no such column".
//
// When adding columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run the db tests; they compare a migrated database against this schema
//
// Dates of visits and birth dates are stored as TEXT in YYYY-MM-DD form.
const SchemaSQL = `
-- Persons (training ambassadors)
CREATE TABLE IF NOT EXISTS persons (
	id TEXT PRIMARY KEY,
	reference_code TEXT,
	active INTEGER NOT NULL DEFAULT 1,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	gender TEXT CHECK(gender IN ('m', 'w', 'd')),
	birth_date TEXT,
	occupation TEXT,
	sector TEXT NOT NULL CHECK(sector IN ('chamber_of_industry', 'chamber_of_trade', 'other')) DEFAULT 'other',
	mobile TEXT,
	email_work TEXT,
	email_private TEXT,
	phone_work TEXT,
	phone_private TEXT,
	direct_contact_allowed INTEGER NOT NULL DEFAULT 0,
	company TEXT,
	company_district TEXT,
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Identity: same name ignoring case and the same birth date, a missing date counting as one value
CREATE UNIQUE INDEX IF NOT EXISTS idx_persons_identity ON persons(first_name COLLATE NOCASE, last_name COLLATE NOCASE, COALESCE(birth_date, ''));
CREATE UNIQUE INDEX IF NOT EXISTS idx_persons_reference_code ON persons(reference_code);
CREATE INDEX IF NOT EXISTS idx_persons_sector ON persons(sector);
CREATE INDEX IF NOT EXISTS idx_persons_active ON persons(active);
CREATE INDEX IF NOT EXISTS idx_persons_last_name ON persons(last_name);

-- Engagements (school visits, at most capacity students each)
CREATE TABLE IF NOT EXISTS engagements (
	id TEXT PRIMARY KEY,
	event_date TEXT NOT NULL,
	school_name TEXT NOT NULL,
	school_type TEXT,
	partner TEXT,
	city TEXT,
	district TEXT,
	career_orientation INTEGER NOT NULL DEFAULT 0,
	online INTEGER NOT NULL DEFAULT 0,
	grade_level TEXT,
	student_count INTEGER NOT NULL CHECK(student_count > 0),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_engagements_event_date ON engagements(event_date);
CREATE INDEX IF NOT EXISTS idx_engagements_district ON engagements(district);
CREATE INDEX IF NOT EXISTS idx_engagements_school_type ON engagements(school_type);

-- Links (ambassador assigned to engagement)
CREATE TABLE IF NOT EXISTS links (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL,
	engagement_id TEXT NOT NULL,
	assigned_on TEXT,
	note TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (person_id) REFERENCES persons(id) ON DELETE CASCADE,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE,
	UNIQUE(person_id, engagement_id)
);

CREATE INDEX IF NOT EXISTS idx_links_person ON links(person_id);
CREATE INDEX IF NOT EXISTS idx_links_engagement ON links(engagement_id);
`

// InitSchema creates the schema on a fresh database or runs pending
// migrations on an existing one.
func InitSchema(db *sql.DB) error {
	var versionTable int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&versionTable)
	if err != nil {
		return err
	}
	if versionTable > 0 {
		return RunMigrations(db)
	}

	var personsTable int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='persons'").Scan(&personsTable)
	if err != nil {
		return err
	}
	if personsTable > 0 {
		// Tables predate version tracking; replay migrations from the start.
		return RunMigrations(db)
	}

	// Completely fresh install: create the modern schema directly and mark
	// every migration as applied.
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(SchemaSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(schemaVersionSQL); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
