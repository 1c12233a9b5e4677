// Package repository reads and writes the backing CSV dataset.
package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conflictwatch/casemap/internal/domain"
)

// ErrNoDataSource reports that neither candidate CSV path exists. The
// caller should offer sample creation rather than treat this as fatal.
var ErrNoDataSource = errors.New("no data source")

// CSVRepository locates and loads the dataset from one of two
// candidate paths; the first existing one wins.
type CSVRepository struct {
	preferred string
	fallback  string
}

// NewCSVRepository creates a repository over a preferred path and a
// fallback path. The fallback may be empty.
func NewCSVRepository(preferred, fallback string) *CSVRepository {
	return &CSVRepository{preferred: preferred, fallback: fallback}
}

// ActivePath returns the first existing candidate path, or "" when
// neither exists.
func (r *CSVRepository) ActivePath() string {
	for _, p := range []string{r.preferred, r.fallback} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the active CSV into a raw table with lowercased, trimmed
// column names. It returns ErrNoDataSource when no candidate exists,
// and a path-naming error when the file exists but cannot be parsed
// as delimited text.
func (r *CSVRepository) Load() (domain.Table, error) {
	path := r.ActivePath()
	if path == "" {
		return domain.Table{}, ErrNoDataSource
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return domain.Table{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses delimited text into a raw table. Header names are
// lowercased and trimmed; short rows are padded with empty cells and
// extra cells beyond the header are ignored.
func ReadTable(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are a per-cell concern, not a parse failure

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Table{}, errors.New("empty file")
		}
		return domain.Table{}, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	cols := make([]string, len(header))
	for i, c := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(c))
	}

	var rows []domain.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, err
		}
		row := make(domain.Row, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = rec[i]
			} else {
				row[c] = ""
			}
		}
		rows = append(rows, row)
	}
	return domain.Table{Columns: cols, Rows: rows}, nil
}

// ExportCSV writes cases as UTF-8 CSV with the input column schema;
// derived columns (color, tooltip) are never included. Absent values
// become empty cells.
func ExportCSV(w io.Writer, cases []domain.Case) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.RequiredColumns); err != nil {
		return err
	}
	for _, c := range cases {
		if err := cw.Write(exportRecord(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRecord(c domain.Case) []string {
	return []string{
		c.ID,
		c.Name,
		c.Country,
		c.Region,
		domain.FloatCell(c.Latitude),
		domain.FloatCell(c.Longitude),
		domain.DateCell(c.StartDate),
		c.Status,
		c.Perpetrators,
		c.TargetedGroup,
		domain.FloatCell(c.EstDeaths),
		domain.DateCell(c.LastVerified),
		c.Sources,
		c.Summary,
	}
}
