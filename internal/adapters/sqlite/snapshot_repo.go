package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/example/ambassador/internal/ports/secondary"
)

// snapshotTables are the tables counted into backup manifests.
var snapshotTables = []string{"persons", "engagements", "links"}

// SnapshotRepository implements secondary.SnapshotStore with SQLite.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SQLite snapshot repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Snapshot writes a consistent, compacted copy of the database to path.
// VACUUM INTO refuses to overwrite, so path must not exist.
func (r *SnapshotRepository) Snapshot(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("snapshot target %s already exists", path)
	}

	if _, err := r.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}

	return nil
}

// RowCounts returns the number of rows per table.
func (r *SnapshotRepository) RowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(snapshotTables))
	for _, table := range snapshotTables {
		var n int
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// SchemaVersion returns the applied migration version.
func (r *SnapshotRepository) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Ensure SnapshotRepository implements the interface.
var _ secondary.SnapshotStore = (*SnapshotRepository)(nil)
