package filesystem

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/secondary"
)

func TestArchiveAdapter_WriteReadExtract(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	adapter := NewArchiveAdapter()

	dbPath := filepath.Join(dir, "snapshot.db")
	if err := os.WriteFile(dbPath, []byte("SQLite format 3\x00payload"), 0644); err != nil {
		t.Fatalf("write db: %v", err)
	}

	manifest := &secondary.BackupManifest{
		CreatedAt:     "2025-03-14T10:00:00Z",
		AppVersion:    "ambassador dev",
		SchemaVersion: 4,
		DatabaseFile:  DatabaseEntry,
		RowCounts:     map[string]int{"persons": 5, "engagements": 6, "links": 5},
	}

	archivePath := filepath.Join(dir, "backups", ArchivePrefix+"20250314_100000"+ArchiveExt)
	if err := adapter.WriteArchive(ctx, archivePath, manifest, dbPath); err != nil {
		t.Fatalf("WriteArchive failed: %v", err)
	}
	if _, err := os.Stat(archivePath + ".partial"); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}

	got, err := adapter.ReadManifest(ctx, archivePath)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if got.SchemaVersion != 4 || got.RowCounts["engagements"] != 6 {
		t.Errorf("manifest = %+v", got)
	}

	target := filepath.Join(dir, "restored.db")
	if err := adapter.ExtractDatabase(ctx, archivePath, target); err != nil {
		t.Fatalf("ExtractDatabase failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if string(data) != "SQLite format 3\x00payload" {
		t.Errorf("restored content = %q", data)
	}
}

func TestArchiveAdapter_ReadManifest_RejectsForeignZip(t *testing.T) {
	_, err := NewArchiveAdapter().ReadManifest(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
	if !errs.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %T: %v", err, err)
	}

	// A zip without a manifest is not a backup.
	foreign := filepath.Join(t.TempDir(), "foreign.zip")
	out, err := os.Create(foreign)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(out)
	w, _ := zw.Create("notes.txt")
	_, _ = w.Write([]byte("hello"))
	_ = zw.Close()
	_ = out.Close()

	_, err = NewArchiveAdapter().ReadManifest(context.Background(), foreign)
	if !errs.IsValidation(err) {
		t.Errorf("expected ValidationError for foreign zip, got %v", err)
	}
}

func TestArchiveAdapter_List(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		ArchivePrefix + "20250101_080000" + ArchiveExt,
		ArchivePrefix + "20250301_080000" + ArchiveExt,
		"notes.txt",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := NewArchiveAdapter().List(context.Background(), dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != names[1] {
		t.Errorf("List = %v", got)
	}

	none, err := NewArchiveAdapter().List(context.Background(), filepath.Join(dir, "absent"))
	if err != nil || len(none) != 0 {
		t.Errorf("List(absent) = %v, %v", none, err)
	}
}

func TestArchiveAdapter_Swap(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "ambassador.db")
	replacement := filepath.Join(dir, "restored.db")
	keep := filepath.Join(dir, "ambassador.db.before-restore-20250314_100000")

	if err := os.WriteFile(live, []byte("old"), 0644); err != nil {
		t.Fatalf("write live: %v", err)
	}
	if err := os.WriteFile(replacement, []byte("new"), 0644); err != nil {
		t.Fatalf("write replacement: %v", err)
	}

	if err := NewArchiveAdapter().Swap(context.Background(), replacement, live, keep); err != nil {
		t.Fatalf("Swap failed: %v", err)
	}

	if data, _ := os.ReadFile(live); string(data) != "new" {
		t.Errorf("live = %q, want new", data)
	}
	if data, _ := os.ReadFile(keep); string(data) != "old" {
		t.Errorf("kept = %q, want old", data)
	}
	if _, err := os.Stat(replacement); !os.IsNotExist(err) {
		t.Error("replacement should have been moved")
	}
}
