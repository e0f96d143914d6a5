package primary

import "context"

// BackupService defines the primary port for backup and restore.
type BackupService interface {
	// CreateBackup writes a zipped snapshot of the database to the backup directory.
	CreateBackup(ctx context.Context) (*BackupResult, error)

	// RestoreBackup replaces the database with the one in archivePath,
	// keeping the current file beside it.
	RestoreBackup(ctx context.Context, archivePath string) (*RestoreResult, error)

	// ListBackups returns archive paths, newest first.
	ListBackups(ctx context.Context) ([]string, error)
}

// BackupResult describes a written archive.
type BackupResult struct {
	Path          string
	CreatedAt     string
	SchemaVersion int
	RowCounts     map[string]int
}

// RestoreResult describes a completed restore.
type RestoreResult struct {
	RestoredFrom  string
	PreviousCopy  string
	SchemaVersion int
	RowCounts     map[string]int
}
