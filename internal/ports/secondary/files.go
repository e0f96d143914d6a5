package secondary

import (
	"context"
	"io"
)

// TableCodec defines the secondary port for delimited tabular files.
type TableCodec interface {
	// WriteTable writes a header row followed by rows.
	WriteTable(w io.Writer, header []string, rows [][]string) error

	// ReadTable reads the header row and every data row. Rows shorter than
	// the header are padded with empty cells.
	ReadTable(r io.Reader) (header []string, rows [][]string, err error)
}

// SnapshotStore defines the secondary port for consistent database copies.
type SnapshotStore interface {
	// Snapshot writes a consistent copy of the live database to path.
	Snapshot(ctx context.Context, path string) error

	// RowCounts returns the number of rows per table.
	RowCounts(ctx context.Context) (map[string]int, error)

	// SchemaVersion returns the applied migration version.
	SchemaVersion(ctx context.Context) (int, error)
}

// ArchiveStore defines the secondary port for backup archives on disk.
type ArchiveStore interface {
	// WriteArchive packs manifest and the database file at dbPath into a
	// new archive at archivePath.
	WriteArchive(ctx context.Context, archivePath string, manifest *BackupManifest, dbPath string) error

	// ReadManifest returns the manifest stored in an archive.
	ReadManifest(ctx context.Context, archivePath string) (*BackupManifest, error)

	// ExtractDatabase writes the archived database file to targetPath.
	ExtractDatabase(ctx context.Context, archivePath, targetPath string) error

	// List returns archive paths in dir, newest first.
	List(ctx context.Context, dir string) ([]string, error)

	// Swap moves livePath aside to keepPath and moves replacement into livePath.
	Swap(ctx context.Context, replacement, livePath, keepPath string) error
}

// BackupManifest describes the contents of a backup archive.
type BackupManifest struct {
	CreatedAt     string         `json:"created_at"`
	AppVersion    string         `json:"app_version"`
	SchemaVersion int            `json:"schema_version"`
	DatabaseFile  string         `json:"database_file"`
	RowCounts     map[string]int `json:"row_counts"`
	CreatedBy     string         `json:"created_by,omitempty"`
}
