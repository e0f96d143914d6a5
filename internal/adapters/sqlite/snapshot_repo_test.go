package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/example/ambassador/internal/adapters/sqlite"
	"github.com/example/ambassador/internal/db"
)

func openFileDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "live.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSnapshotRepository_SnapshotIsConsistentCopy(t *testing.T) {
	ctx := context.Background()
	live := openFileDB(t)
	if err := db.SeedFixtures(live); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}
	repo := sqlite.NewSnapshotRepository(live)

	target := filepath.Join(t.TempDir(), "snapshot.db")
	if err := repo.Snapshot(ctx, target); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	copyDB, err := sql.Open("sqlite3", db.DSN(target))
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer copyDB.Close()

	if got := countRows(t, copyDB, "SELECT COUNT(*) FROM links"); got != 5 {
		t.Errorf("snapshot links = %d, want 5", got)
	}

	// VACUUM INTO never overwrites
	if err := repo.Snapshot(ctx, target); err == nil {
		t.Error("expected error for existing target")
	}
}

func TestSnapshotRepository_RowCountsAndVersion(t *testing.T) {
	ctx := context.Background()
	live := openFileDB(t)
	if err := db.SeedFixtures(live); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}
	repo := sqlite.NewSnapshotRepository(live)

	counts, err := repo.RowCounts(ctx)
	if err != nil {
		t.Fatalf("RowCounts failed: %v", err)
	}
	want := map[string]int{"persons": 5, "engagements": 6, "links": 5}
	for table, n := range want {
		if counts[table] != n {
			t.Errorf("%s = %d, want %d", table, counts[table], n)
		}
	}

	version, err := repo.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != db.LatestVersion() {
		t.Errorf("version = %d, want %d", version, db.LatestVersion())
	}
}
