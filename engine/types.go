package engine

import "errors"

// ============================================================================
// ENGINE TYPES — Chart specs, groups and render-ready output
// ============================================================================
// A ChartSpec says what to compute over a RecordView; Execute turns it into a
// Result carrying a ChartConfig (for the renderer) and a TableData (for the
// CLI summary and the data exports).
// ============================================================================

// ErrNoData is returned when a spec runs against an empty view, or when every
// record is filtered out.
var ErrNoData = errors.New("no records to aggregate")

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// CHART SPEC — What to compute
// ============================================================================

// Chart kinds understood by the renderer.
const (
	KindLine   = "line"
	KindBar    = "bar"
	KindViolin = "violin"
)

// Aggregations.
const (
	AggMedian       = "median"
	AggCount        = "count"
	AggSum          = "sum"
	AggAvg          = "avg"
	AggMin          = "min"
	AggMax          = "max"
	AggDistribution = "distribution"
)

// Sort modes.
const (
	SortNone       = ""
	SortKeyNumeric = "key_numeric_asc"
	SortValueDesc  = "value_desc"
	SortValueAsc   = "value_asc"
	SortLabelAsc   = "label_asc"
	SortExplicit   = "explicit"
)

// ChartSpec defines one chart: which records, how to group them, which
// measure to aggregate and how to present the result.
type ChartSpec struct {
	ID          string   `json:"id"`                    // stable file/sheet name, e.g. "fig_year"
	Kind        string   `json:"kind"`                  // "line", "bar", "violin"
	Title       string   `json:"title"`
	Filters     Filters  `json:"filters"`
	GroupBy     string   `json:"groupBy"`               // dimension key
	Measure     string   `json:"measure"`               // measure key (empty → default measure)
	Aggregation string   `json:"aggregation"`           // see Agg* constants
	SortBy      string   `json:"sortBy"`                // see Sort* constants
	Order       []string `json:"order,omitempty"`       // key order for SortExplicit
	Limit       int      `json:"limit"`                 // 0 = all
	XLabel      string   `json:"xLabel"`
	YLabel      string   `json:"yLabel"`
	SeriesName  string   `json:"seriesName,omitempty"`  // single-series name, e.g. "Median Price by Year"
	ColorByKey  bool     `json:"colorByKey"`            // one colour per group (brand charts)
	ShowLegend  bool     `json:"showLegend"`
	TickAngle   float64  `json:"tickAngle,omitempty"`   // x tick label rotation, degrees
	Currency    string   `json:"currency,omitempty"`    // unit for y values, e.g. "£"
}

// Filters define which records to include.
// Dimensions: keys are dimension names, values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
// Ranges: keys are measure names; every range must hold.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions,omitempty"`
	Ranges     map[string]Range    `json:"ranges,omitempty"`
}

// Range bounds a measure inclusively. A nil bound is open.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Between returns an inclusive range [min, max].
func Between(min, max float64) Range {
	return Range{Min: &min, Max: &max}
}

// AtMost returns the range (-inf, max].
func AtMost(max float64) Range {
	return Range{Max: &max}
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if len(f.Ranges) > 0 {
		return false
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output for one ChartSpec.
type Result struct {
	Spec        ChartSpec    `json:"spec"`
	ChartConfig *ChartConfig `json:"chartConfig"`
	TableData   *TableData   `json:"tableData"`
	Records     int          `json:"records"` // records after filtering
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig or TableData.
type Group struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Value  float64    `json:"value"`
	Count  int        `json:"count"`
	Values []float64  `json:"values,omitempty"` // raw measure values, AggDistribution only
	View   RecordView `json:"-"`                // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ID         string        `json:"id"`
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	TickAngle  float64       `json:"tickAngle,omitempty"`
	Unit       string        `json:"unit,omitempty"`
}

// ChartSeries represents a data series in a chart.
// Line charts carry one series with a point per group. Brand charts carry one
// series per group so each brand gets its own colour and legend entry.
type ChartSeries struct {
	Name   string       `json:"name"`
	Data   []ChartPoint `json:"data"`
	Color  string       `json:"color,omitempty"`
	Values []float64    `json:"values,omitempty"` // raw distribution (violin)
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData holds headline statistics for one measure.
type TextData struct {
	Value    string  `json:"value"`
	RawValue float64 `json:"rawValue"`
	Unit     string  `json:"unit"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}
