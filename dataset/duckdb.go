package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// ============================================================================
// DUCKDB LOADER — Reads the listings CSV through DuckDB's CSV sniffer
// ============================================================================
// DuckDB copes with delimiters, quoting and encodings that encoding/csv
// rejects. Every column is read as VARCHAR so parsing and missing-value rules
// stay identical to the native loader.
// ============================================================================

// LoadDuckDB reads a listings CSV with an in-memory DuckDB database.
func LoadDuckDB(ctx context.Context, path string, opts LoadOptions) (*Raw, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf(
		"SELECT * FROM read_csv('%s', header = true, all_varchar = true)",
		escapeLiteral(absPath),
	)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: read_csv: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: columns: %w", path, err)
	}

	raw, err := read(ctx, headers, newSQLSource(rows, len(headers)), opts.withDefaults())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	raw.Source = path
	return raw, nil
}

// sqlSource adapts *sql.Rows to rowSource. NULL cells read as "".
type sqlSource struct {
	rows  *sql.Rows
	cells []sql.NullString
	dest  []any
}

func newSQLSource(rows *sql.Rows, width int) *sqlSource {
	s := &sqlSource{
		rows:  rows,
		cells: make([]sql.NullString, width),
		dest:  make([]any, width),
	}
	for i := range s.cells {
		s.dest[i] = &s.cells[i]
	}
	return s
}

func (s *sqlSource) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	if err := s.rows.Scan(s.dest...); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	row := make([]string, len(s.cells))
	for i, c := range s.cells {
		if c.Valid {
			row[i] = c.String
		}
	}
	return row, nil
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
