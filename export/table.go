// Package export writes the report to disk: HTML pages, and optionally the
// chart data as CSV files and an XLSX workbook.
package export

import (
	"fmt"

	"github.com/spektr-org/carmarket/engine"
)

// ============================================================================
// CHART DATA — ChartConfig → header + rows
// ============================================================================
// Shapes:
//   single series   → x, y                 (one row per point)
//   violin          → brand, value         (one row per observation)
//   keyed series    → brand, value         (one row per series)
//   multi series    → x, series1, series2… (one row per point)
// ============================================================================

// Table flattens a chart into rows of strings and float64s.
func Table(cfg *engine.ChartConfig) (header []string, rows [][]any) {
	if cfg == nil || len(cfg.Series) == 0 {
		return nil, nil
	}

	xLabel := cfg.XAxis
	yLabel := cfg.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}
	header = []string{xLabel, yLabel}

	switch {
	case len(cfg.Series) == 1 && cfg.ChartType != engine.KindViolin:
		for _, d := range cfg.Series[0].Data {
			rows = append(rows, []any{d.Label, d.Value})
		}

	case cfg.ChartType == engine.KindViolin:
		for _, s := range cfg.Series {
			for _, v := range s.Values {
				rows = append(rows, []any{s.Name, v})
			}
		}

	case keyed(cfg.Series):
		for _, s := range cfg.Series {
			rows = append(rows, []any{s.Name, s.Data[0].Value})
		}

	default:
		header = []string{xLabel}
		for _, s := range cfg.Series {
			header = append(header, s.Name)
		}
		for i, d := range cfg.Series[0].Data {
			row := []any{d.Label}
			for _, s := range cfg.Series {
				if i < len(s.Data) {
					row = append(row, s.Data[i].Value)
				} else {
					row = append(row, "")
				}
			}
			rows = append(rows, row)
		}
	}
	return header, rows
}

// keyed reports whether every series holds exactly one point, as brand charts do.
func keyed(series []engine.ChartSeries) bool {
	for _, s := range series {
		if len(s.Data) != 1 {
			return false
		}
	}
	return true
}

// fmtNum formats a cell: whole numbers without decimals, others with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func cellString(v any) string {
	switch x := v.(type) {
	case float64:
		return fmtNum(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
