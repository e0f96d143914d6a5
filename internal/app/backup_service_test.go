package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ctxutil"
	"github.com/example/ambassador/internal/ports/secondary"
)

// ============================================================================
// Mock SnapshotStore / ArchiveStore
// ============================================================================

var _ secondary.SnapshotStore = (*mockSnapshotStore)(nil)

type mockSnapshotStore struct {
	snapshots []string
}

func (m *mockSnapshotStore) Snapshot(ctx context.Context, path string) error {
	m.snapshots = append(m.snapshots, path)
	return os.WriteFile(path, []byte("snapshot"), 0644)
}

func (m *mockSnapshotStore) RowCounts(ctx context.Context) (map[string]int, error) {
	return map[string]int{"persons": 5, "engagements": 6, "links": 5}, nil
}

func (m *mockSnapshotStore) SchemaVersion(ctx context.Context) (int, error) {
	return 4, nil
}

var _ secondary.ArchiveStore = (*mockArchiveStore)(nil)

type mockArchiveStore struct {
	written   map[string]*secondary.BackupManifest
	extracted []string
	swaps     [][3]string
	listed    []string
}

func newMockArchiveStore() *mockArchiveStore {
	return &mockArchiveStore{written: make(map[string]*secondary.BackupManifest)}
}

func (m *mockArchiveStore) WriteArchive(ctx context.Context, archivePath string, manifest *secondary.BackupManifest, dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return err
	}
	m.written[archivePath] = manifest
	return nil
}

func (m *mockArchiveStore) ReadManifest(ctx context.Context, archivePath string) (*secondary.BackupManifest, error) {
	manifest, ok := m.written[archivePath]
	if !ok {
		return nil, errs.NotFound("backup", archivePath)
	}
	return manifest, nil
}

func (m *mockArchiveStore) ExtractDatabase(ctx context.Context, archivePath, targetPath string) error {
	m.extracted = append(m.extracted, targetPath)
	return os.WriteFile(targetPath, []byte("restored"), 0644)
}

func (m *mockArchiveStore) List(ctx context.Context, dir string) ([]string, error) {
	return m.listed, nil
}

func (m *mockArchiveStore) Swap(ctx context.Context, replacement, livePath, keepPath string) error {
	m.swaps = append(m.swaps, [3]string{replacement, livePath, keepPath})
	return nil
}

func newTestBackupService(t *testing.T) (*BackupServiceImpl, *mockArchiveStore, *int) {
	t.Helper()
	dir := t.TempDir()
	archives := newMockArchiveStore()
	closed := 0

	svc := NewBackupService(
		&mockSnapshotStore{},
		archives,
		filepath.Join(dir, "ambassador.db"),
		filepath.Join(dir, "backups"),
		4,
		func() error { closed++; return nil },
		zap.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return svc, archives, &closed
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateBackup(t *testing.T) {
	svc, archives, _ := newTestBackupService(t)
	ctx := ctxutil.WithActorID(context.Background(), "jdoe")

	result, err := svc.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if filepath.Base(result.Path) != "ambassador_backup_20250314_093000.zip" {
		t.Errorf("unexpected archive name %q", result.Path)
	}
	manifest := archives.written[result.Path]
	if manifest == nil {
		t.Fatal("expected archive to be written")
	}
	if manifest.SchemaVersion != 4 || manifest.RowCounts["engagements"] != 6 {
		t.Errorf("unexpected manifest: %+v", manifest)
	}
	if manifest.CreatedBy != "jdoe" {
		t.Errorf("expected actor in manifest, got %q", manifest.CreatedBy)
	}
	if manifest.DatabaseFile != "ambassador.db" || manifest.CreatedAt != "2025-03-14T09:30:00Z" {
		t.Errorf("unexpected manifest header: %+v", manifest)
	}
}

func TestRestoreBackup(t *testing.T) {
	svc, archives, closed := newTestBackupService(t)
	ctx := context.Background()
	archives.written["/backups/a.zip"] = &secondary.BackupManifest{SchemaVersion: 3, RowCounts: map[string]int{"persons": 2}}

	result, err := svc.RestoreBackup(ctx, "/backups/a.zip")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if *closed != 1 {
		t.Errorf("expected database closed once, got %d", *closed)
	}
	if len(archives.swaps) != 1 {
		t.Fatalf("expected one swap, got %d", len(archives.swaps))
	}
	swap := archives.swaps[0]
	if swap[1] != svc.dbPath {
		t.Errorf("expected swap into %s, got %s", svc.dbPath, swap[1])
	}
	if swap[2] != svc.dbPath+".before-restore-20250314_093000" || result.PreviousCopy != swap[2] {
		t.Errorf("unexpected keep path %q / %q", swap[2], result.PreviousCopy)
	}
	if result.RowCounts["persons"] != 2 {
		t.Errorf("expected manifest counts in result, got %v", result.RowCounts)
	}
}

func TestRestoreBackup_RejectsNewerSchema(t *testing.T) {
	svc, archives, closed := newTestBackupService(t)
	archives.written["/backups/new.zip"] = &secondary.BackupManifest{SchemaVersion: 9}

	_, err := svc.RestoreBackup(context.Background(), "/backups/new.zip")
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if *closed != 0 || len(archives.swaps) != 0 {
		t.Error("expected live database untouched")
	}
}

func TestRestoreBackup_MissingArchive(t *testing.T) {
	svc, archives, _ := newTestBackupService(t)

	_, err := svc.RestoreBackup(context.Background(), "/backups/missing.zip")
	if !errs.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(archives.extracted) != 0 {
		t.Error("expected nothing extracted")
	}
}

func TestListBackups(t *testing.T) {
	svc, archives, _ := newTestBackupService(t)
	archives.listed = []string{"b.zip", "a.zip"}

	paths, err := svc.ListBackups(context.Background())
	if err != nil || len(paths) != 2 {
		t.Fatalf("expected two backups, got %v (err %v)", paths, err)
	}
}
