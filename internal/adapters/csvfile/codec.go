// Package csvfile reads and writes delimited tables for import and export.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/ambassador/internal/ports/secondary"
)

// Codec implements secondary.TableCodec with encoding/csv.
type Codec struct {
	delimiter rune
}

// NewCodec creates a codec for the given field delimiter (';' when zero).
func NewCodec(delimiter rune) *Codec {
	if delimiter == 0 {
		delimiter = ';'
	}
	return &Codec{delimiter: delimiter}
}

// WriteTable writes a header row followed by rows.
func (c *Codec) WriteTable(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.Comma = c.delimiter

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadTable reads the header row and every data row. Blank lines are skipped;
// short rows are padded to the header width.
func (c *Codec) ReadTable(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.delimiter
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Handle BOM in first cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		if isBlank(rec) {
			continue
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}

	return header, rows, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Ensure Codec implements the interface.
var _ secondary.TableCodec = (*Codec)(nil)
