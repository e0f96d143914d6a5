package primary

import (
	"context"
	"io"
)

// TransferService defines the primary port for CSV import and export.
type TransferService interface {
	// ExportPersons writes every person and returns the row count.
	ExportPersons(ctx context.Context, w io.Writer) (int, error)

	// ExportEngagements writes every engagement and returns the row count.
	ExportEngagements(ctx context.Context, w io.Writer) (int, error)

	// ExportLinks writes every link and returns the row count.
	ExportLinks(ctx context.Context, w io.Writer) (int, error)

	// ImportPersons registers one person per row; bad rows are reported, not fatal.
	ImportPersons(ctx context.Context, r io.Reader) (*ImportResult, error)

	// ImportEngagements creates engagements per row, splitting oversized visits.
	ImportEngagements(ctx context.Context, r io.Reader) (*ImportResult, error)
}

// ImportResult summarises an import.
type ImportResult struct {
	TotalRows  int
	Imported   int
	CreatedIDs []string
	Errors     []RowError
}

// RowError reports why one data row (1-based, header excluded) was rejected.
type RowError struct {
	Row    int
	Reason string
}
