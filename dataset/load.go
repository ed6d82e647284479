package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spektr-org/carmarket/schema"
)

// ============================================================================
// CSV LOADER — Parses a listings CSV into []Listing
// ============================================================================
// Both loaders (encoding/csv here, DuckDB in duckdb.go) produce the header row
// and a stream of string records; parsing and validation are shared.
// ============================================================================

// LoadOptions configures a loader.
type LoadOptions struct {
	Schema schema.Config
	Logger *slog.Logger
}

func (o LoadOptions) withDefaults() LoadOptions {
	if len(o.Schema.Dimensions) == 0 && len(o.Schema.Measures) == 0 {
		o.Schema = schema.CarListings()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// rowSource yields records until io.EOF. A *csv.ParseError skips one record;
// any other error aborts the load.
type rowSource interface {
	Next() ([]string, error)
}

// Load reads a listings CSV from disk.
func Load(ctx context.Context, path string, opts LoadOptions) (*Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listings: %w", err)
	}
	defer func() { _ = f.Close() }()

	raw, err := LoadReader(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	raw.Source = path
	return raw, nil
}

// LoadReader reads a listings CSV from r.
func LoadReader(ctx context.Context, r io.Reader, opts LoadOptions) (*Raw, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", ErrEmpty)
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	return read(ctx, headers, csvSource{reader}, opts.withDefaults())
}

type csvSource struct{ r *csv.Reader }

func (s csvSource) Next() ([]string, error) { return s.r.Read() }

// read validates headers and parses every record of src.
func read(ctx context.Context, headers []string, src rowSource, opts LoadOptions) (*Raw, error) {
	index, missing := opts.Schema.Resolve(headers)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	parser := rowParser{index: index}
	raw := &Raw{Headers: headers}

	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			raw.Malformed++
			opts.Logger.Debug("skipping malformed row", "line", parseErr.Line, "error", parseErr.Err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", n+1, err)
		}
		raw.Listings = append(raw.Listings, parser.parse(row))
	}

	if len(raw.Listings) == 0 {
		return nil, fmt.Errorf("header only: %w", ErrEmpty)
	}

	opts.Logger.Info("listings loaded",
		"rows", len(raw.Listings),
		"malformed", raw.Malformed,
		"columns", len(headers),
	)
	return raw, nil
}
