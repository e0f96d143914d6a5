// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/secondary"
)

// Archive entry names.
const (
	ManifestEntry = "manifest.json"
	DatabaseEntry = "ambassador.db"
)

// ArchivePrefix and ArchiveExt frame every backup file name.
const (
	ArchivePrefix = "ambassador_backup_"
	ArchiveExt    = ".zip"
)

// ArchiveAdapter implements secondary.ArchiveStore with zip files.
type ArchiveAdapter struct{}

// NewArchiveAdapter creates a new zip archive adapter.
func NewArchiveAdapter() *ArchiveAdapter {
	return &ArchiveAdapter{}
}

// WriteArchive packs manifest and the database file into archivePath.
// The archive is written to a temporary name and renamed on success.
func (a *ArchiveAdapter) WriteArchive(ctx context.Context, archivePath string, manifest *secondary.BackupManifest, dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	tmpPath := archivePath + ".partial"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer os.Remove(tmpPath)

	if err := writeZip(ctx, out, manifest, dbPath); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}

	if err := os.Rename(tmpPath, archivePath); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func writeZip(ctx context.Context, w io.Writer, manifest *secondary.BackupManifest, dbPath string) error {
	zw := zip.NewWriter(w)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	mw, err := zw.Create(ManifestEntry)
	if err != nil {
		return fmt.Errorf("failed to add manifest: %w", err)
	}
	if _, err := mw.Write(data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database snapshot: %w", err)
	}
	defer src.Close()

	dw, err := zw.Create(DatabaseEntry)
	if err != nil {
		return fmt.Errorf("failed to add database: %w", err)
	}
	if _, err := io.Copy(dw, src); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// ReadManifest returns the manifest stored in an archive.
func (a *ArchiveAdapter) ReadManifest(ctx context.Context, archivePath string) (*secondary.BackupManifest, error) {
	zr, err := zip.OpenReader(archivePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.NotFound("backup", archivePath)
	}
	if err != nil {
		return nil, errs.NewValidation(fmt.Sprintf("%s is not a backup archive: %v", filepath.Base(archivePath), err))
	}
	defer zr.Close()

	f := findEntry(&zr.Reader, ManifestEntry)
	if f == nil {
		return nil, errs.NewValidation(fmt.Sprintf("archive %s has no %s", filepath.Base(archivePath), ManifestEntry))
	}
	if findEntry(&zr.Reader, DatabaseEntry) == nil {
		return nil, errs.NewValidation(fmt.Sprintf("archive %s has no %s", filepath.Base(archivePath), DatabaseEntry))
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	defer rc.Close()

	var manifest secondary.BackupManifest
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &manifest, nil
}

// ExtractDatabase writes the archived database file to targetPath.
func (a *ArchiveAdapter) ExtractDatabase(ctx context.Context, archivePath, targetPath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	f := findEntry(&zr.Reader, DatabaseEntry)
	if f == nil {
		return fmt.Errorf("archive %s has no %s", filepath.Base(archivePath), DatabaseEntry)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read database entry: %w", err)
	}
	defer rc.Close()

	out, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", targetPath, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract database: %w", err)
	}
	return out.Close()
}

// List returns backup archives in dir, newest first. A missing dir is empty.
func (a *ArchiveAdapter) List(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, ArchivePrefix) || !strings.HasSuffix(name, ArchiveExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// Swap moves livePath aside to keepPath and moves replacement into livePath.
// If the second move fails the original file is put back.
func (a *ArchiveAdapter) Swap(ctx context.Context, replacement, livePath, keepPath string) error {
	if _, err := os.Stat(livePath); err == nil {
		if err := os.Rename(livePath, keepPath); err != nil {
			return fmt.Errorf("failed to keep current database: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to inspect current database: %w", err)
	}

	if err := os.Rename(replacement, livePath); err != nil {
		if _, statErr := os.Stat(keepPath); statErr == nil {
			_ = os.Rename(keepPath, livePath)
		}
		return fmt.Errorf("failed to move restored database into place: %w", err)
	}
	return nil
}

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Ensure ArchiveAdapter implements the interface.
var _ secondary.ArchiveStore = (*ArchiveAdapter)(nil)
