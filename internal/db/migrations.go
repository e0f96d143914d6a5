package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_persons_engagements_links",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_reference_code_and_contact_fields_to_persons",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_assigned_on_and_note_to_links",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_lookup_indexes",
		Up:      migrationV4,
	},
	{
		Version: 5,
		Name:    "add_case_insensitive_person_identity_index",
		Up:      migrationV5,
	},
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// LatestVersion returns the version a fully migrated database reports.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// columnExists reports whether table already has column. Tables created
// before version tracking may already carry later columns.
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?",
		table, column,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// addColumn runs ALTER TABLE ADD COLUMN unless the column is present.
func addColumn(tx *sql.Tx, table, column, definition string) error {
	exists, err := columnExists(tx, table, column)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	if exists {
		return nil
	}
	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return fmt.Errorf("failed to add %s to %s: %w", column, table, err)
	}
	return nil
}

// migrationV1 creates the three core tables in their first shape.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS persons (
			id TEXT PRIMARY KEY,
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
			company TEXT,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(first_name, last_name, birth_date)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create persons table: %w", err)
	}

	_, err = tx.Exec(`
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
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create engagements table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS links (
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL,
			engagement_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (person_id) REFERENCES persons(id) ON DELETE CASCADE,
			FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE,
			UNIQUE(person_id, engagement_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create links table: %w", err)
	}

	return nil
}

// migrationV2 adds the external reference code and the secondary contact fields.
func migrationV2(tx *sql.Tx) error {
	columns := []struct{ name, def string }{
		{"reference_code", "TEXT"},
		{"phone_work", "TEXT"},
		{"phone_private", "TEXT"},
		{"direct_contact_allowed", "INTEGER NOT NULL DEFAULT 0"},
		{"company_district", "TEXT"},
	}
	for _, c := range columns {
		if err := addColumn(tx, "persons", c.name, c.def); err != nil {
			return err
		}
	}

	// SQLite cannot add a UNIQUE column; a unique index gives the same guarantee.
	_, err := tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_persons_reference_code ON persons(reference_code)")
	if err != nil {
		return fmt.Errorf("failed to create reference code index: %w", err)
	}
	return nil
}

// migrationV3 records when an ambassador was assigned plus a free-text note.
func migrationV3(tx *sql.Tx) error {
	if err := addColumn(tx, "links", "assigned_on", "TEXT"); err != nil {
		return err
	}
	if err := addColumn(tx, "links", "note", "TEXT"); err != nil {
		return err
	}
	_, err := tx.Exec("UPDATE links SET assigned_on = DATE(created_at) WHERE assigned_on IS NULL")
	if err != nil {
		return fmt.Errorf("failed to backfill assigned_on: %w", err)
	}
	return nil
}

// migrationV4 adds the indexes used by list filters and link lookups.
func migrationV4(tx *sql.Tx) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_persons_sector ON persons(sector)",
		"CREATE INDEX IF NOT EXISTS idx_persons_active ON persons(active)",
		"CREATE INDEX IF NOT EXISTS idx_persons_last_name ON persons(last_name)",
		"CREATE INDEX IF NOT EXISTS idx_engagements_event_date ON engagements(event_date)",
		"CREATE INDEX IF NOT EXISTS idx_engagements_district ON engagements(district)",
		"CREATE INDEX IF NOT EXISTS idx_engagements_school_type ON engagements(school_type)",
		"CREATE INDEX IF NOT EXISTS idx_links_person ON links(person_id)",
		"CREATE INDEX IF NOT EXISTS idx_links_engagement ON links(engagement_id)",
	}
	for _, stmt := range indexes {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// migrationV5 enforces person identity the way the application compares it.
// The UNIQUE clause from version 1 compares names case-sensitively and lets
// any number of rows without a birth date through; it stays on upgraded
// tables but the index is the rule that matters.
func migrationV5(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_persons_identity
		ON persons(first_name COLLATE NOCASE, last_name COLLATE NOCASE, COALESCE(birth_date, ''))`)
	if err != nil {
		return fmt.Errorf("failed to create person identity index: %w", err)
	}
	return nil
}
