package engine

import (
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from ChartSpec + Groups
// ============================================================================
// The table mirrors the chart: one row per group, with the aggregated value
// and the number of records behind it. Used by the CLI summary and exports.
// ============================================================================

// BuildTable produces a TableData from a ChartSpec and its groups.
func BuildTable(spec ChartSpec, groups []Group) *TableData {
	if len(groups) == 0 {
		return &TableData{
			Title:   spec.Title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	groupLabel := spec.XLabel
	if groupLabel == "" {
		groupLabel = LabelForDimension(spec.GroupBy)
	}
	valueLabel := spec.YLabel
	if valueLabel == "" || spec.Aggregation == AggDistribution {
		valueLabel = LabelForAggregation(spec.Aggregation) + " " + LabelForDimension(spec.Measure)
	}

	valueType := "number"
	if spec.Currency != "" && spec.Aggregation != AggCount {
		valueType = "currency"
	}

	columns := []Column{
		{Key: "group", Label: groupLabel, Type: "text", Align: "left"},
		{Key: "value", Label: valueLabel, Type: valueType, Align: "right"},
		{Key: "count", Label: "Count", Type: "number", Align: "center"},
	}

	rows := make([][]string, 0, len(groups))
	var totalCount int

	for _, g := range groups {
		rows = append(rows, []string{
			g.Label,
			formatValue(g.Value, valueType, spec.Currency),
			strconv.Itoa(g.Count),
		})
		totalCount += g.Count
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Total",
			Values: map[string]string{
				"count": strconv.Itoa(totalCount),
			},
		},
	}
}

func formatValue(v float64, valueType, unit string) string {
	if valueType == "currency" {
		return FormatCurrency(v, unit)
	}
	return strconv.FormatFloat(RoundTo2(v), 'f', -1, 64)
}
