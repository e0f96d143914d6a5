package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ctxutil"
	"github.com/example/ambassador/internal/logging"
	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/ports/secondary"
	"github.com/example/ambassador/internal/version"
)

const (
	backupStampLayout = "20060102_150405"
	backupPrefix      = "ambassador_backup_"
	backupExt         = ".zip"
)

// BackupServiceImpl implements the BackupService interface.
type BackupServiceImpl struct {
	snapshots        secondary.SnapshotStore
	archives         secondary.ArchiveStore
	dbPath           string
	backupDir        string
	maxSchemaVersion int
	closeDB          func() error
	logger           *zap.Logger
	now              func() time.Time
}

// NewBackupService creates a new BackupService with injected dependencies.
// closeDB releases the live database before a restore swaps the file;
// maxSchemaVersion is the newest schema this build can open.
func NewBackupService(
	snapshots secondary.SnapshotStore,
	archives secondary.ArchiveStore,
	dbPath string,
	backupDir string,
	maxSchemaVersion int,
	closeDB func() error,
	logger *zap.Logger,
) *BackupServiceImpl {
	return &BackupServiceImpl{
		snapshots:        snapshots,
		archives:         archives,
		dbPath:           dbPath,
		backupDir:        backupDir,
		maxSchemaVersion: maxSchemaVersion,
		closeDB:          closeDB,
		logger:           logger,
		now:              time.Now,
	}
}

// CreateBackup snapshots the database and zips it with a manifest.
func (s *BackupServiceImpl) CreateBackup(ctx context.Context) (*primary.BackupResult, error) {
	now := s.now()
	archivePath := filepath.Join(s.backupDir, backupPrefix+now.Format(backupStampLayout)+backupExt)
	if _, err := os.Stat(archivePath); err == nil {
		return nil, errs.Conflict("backup", fmt.Sprintf("%s already exists", archivePath))
	}

	// 1. Gather manifest facts before the snapshot
	counts, err := s.snapshots.RowCounts(ctx)
	if err != nil {
		return nil, err
	}
	schemaVersion, err := s.snapshots.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Snapshot into a scratch directory
	scratch, err := os.MkdirTemp("", "ambassador-backup-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	snapshotPath := filepath.Join(scratch, "snapshot.db")
	if err := s.snapshots.Snapshot(ctx, snapshotPath); err != nil {
		return nil, err
	}

	// 3. Archive
	manifest := &secondary.BackupManifest{
		CreatedAt:     now.UTC().Format(time.RFC3339),
		AppVersion:    version.Short(),
		SchemaVersion: schemaVersion,
		DatabaseFile:  filepath.Base(s.dbPath),
		RowCounts:     counts,
		CreatedBy:     ctxutil.ActorOrSystem(ctx),
	}
	if err := s.archives.WriteArchive(ctx, archivePath, manifest, snapshotPath); err != nil {
		return nil, err
	}

	logging.WithActor(ctx, s.logger).Info("backup created",
		zap.String("path", archivePath),
		zap.Int("schema_version", schemaVersion),
		zap.Any("row_counts", counts),
	)

	return &primary.BackupResult{
		Path:          archivePath,
		CreatedAt:     manifest.CreatedAt,
		SchemaVersion: schemaVersion,
		RowCounts:     counts,
	}, nil
}

// RestoreBackup replaces the live database with the archived one.
func (s *BackupServiceImpl) RestoreBackup(ctx context.Context, archivePath string) (*primary.RestoreResult, error) {
	// 1. Validate the archive
	manifest, err := s.archives.ReadManifest(ctx, archivePath)
	if err != nil {
		return nil, err
	}
	if manifest.SchemaVersion > s.maxSchemaVersion {
		return nil, errs.NewValidation(fmt.Sprintf(
			"backup schema version %d is newer than this build supports (%d)",
			manifest.SchemaVersion, s.maxSchemaVersion))
	}

	// 2. Extract beside the live file so the swap is a rename
	staged := s.dbPath + ".restoring"
	_ = os.Remove(staged)
	if err := s.archives.ExtractDatabase(ctx, archivePath, staged); err != nil {
		return nil, err
	}
	defer os.Remove(staged)

	// 3. Release the live database and swap
	if s.closeDB != nil {
		if err := s.closeDB(); err != nil {
			return nil, fmt.Errorf("failed to close database: %w", err)
		}
	}

	keep := s.dbPath + ".before-restore-" + s.now().Format(backupStampLayout)
	if err := s.archives.Swap(ctx, staged, s.dbPath, keep); err != nil {
		return nil, err
	}

	logging.WithActor(ctx, s.logger).Info("backup restored",
		zap.String("from", archivePath),
		zap.String("previous_copy", keep),
		zap.Int("schema_version", manifest.SchemaVersion),
	)

	return &primary.RestoreResult{
		RestoredFrom:  archivePath,
		PreviousCopy:  keep,
		SchemaVersion: manifest.SchemaVersion,
		RowCounts:     manifest.RowCounts,
	}, nil
}

// ListBackups returns archive paths in the backup directory, newest first.
func (s *BackupServiceImpl) ListBackups(ctx context.Context) ([]string, error) {
	return s.archives.List(ctx, s.backupDir)
}

// Ensure BackupServiceImpl implements the interface
var _ primary.BackupService = (*BackupServiceImpl)(nil)
