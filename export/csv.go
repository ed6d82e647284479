package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spektr-org/carmarket/engine"
)

// WriteChartCSV writes one chart's data as CSV.
func WriteChartCSV(w io.Writer, cfg *engine.ChartConfig) error {
	header, rows := Table(cfg)
	if header == nil {
		return fmt.Errorf("chart csv: %w", engine.ErrNoData)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, 0, len(header))
	for _, row := range rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, cellString(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFiles writes <id>.csv for every chart into dir and returns the paths.
func WriteCSVFiles(dir string, charts []*engine.ChartConfig) ([]string, error) {
	paths := make([]string, 0, len(charts))
	for _, cfg := range charts {
		path := filepath.Join(dir, cfg.ID+".csv")
		if err := writeFile(path, func(w io.Writer) error { return WriteChartCSV(w, cfg) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile creates path and fills it with fn, reporting close errors.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
